package importer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func date(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func TestParser_Parse(t *testing.T) {
	type args struct {
		csvContent string
	}

	type testCase struct {
		name    string
		args    args
		wantLen int
		verify  func(t *testing.T, params []transaction.CreateParams)
		wantErr bool
	}

	tests := []testCase{
		{
			name: "BankExportWithPreamble",
			args: args{
				csvContent: `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
Saldo contabilístico;1.000,00 EUR
Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;TEST_EXPENSE;-1.010,00;990,00
09-01-2026;09-01-2026;TEST_INCOME;50,00;1.040,00
`,
			},
			wantLen: 2,
			verify: func(t *testing.T, params []transaction.CreateParams) {
				assert.Equal(t, "TEST_EXPENSE", params[0].Description)
				assert.Equal(t, "1010", params[0].Amount.String())
				assert.Equal(t, transaction.TypeExpense, params[0].Type)
				assert.True(t, params[0].Date.Equal(date("2026-01-30")))

				assert.Equal(t, "TEST_INCOME", params[1].Description)
				assert.Equal(t, "50", params[1].Amount.String())
				assert.Equal(t, transaction.TypeIncome, params[1].Type)
			},
		},
		{
			name: "ExportRoundTrip",
			args: args{
				csvContent: "date,description,type,amount,category\n" +
					"2024-03-01,netflix subscription,Expense,15.99,Services\n" +
					"2024-03-02,\"salary, march\",Income,2500.00,Income\n",
			},
			wantLen: 2,
			verify: func(t *testing.T, params []transaction.CreateParams) {
				assert.Equal(t, transaction.TypeExpense, params[0].Type)
				assert.Equal(t, "15.99", params[0].Amount.String())
				assert.Equal(t, "salary, march", params[1].Description)
				assert.Equal(t, transaction.TypeIncome, params[1].Type)
				assert.True(t, params[1].Date.Equal(date("2024-03-02")))
			},
		},
		{
			name: "SplitDebitCredit",
			args: args{
				csvContent: `Data;Descrição;Débito;Crédito
02/01/2026;COMPRA LIDL;12,34;
03/01/2026;REEMBOLSO;;5,00
`,
			},
			wantLen: 2,
			verify: func(t *testing.T, params []transaction.CreateParams) {
				assert.Equal(t, transaction.TypeExpense, params[0].Type)
				assert.Equal(t, "12.34", params[0].Amount.String())
				assert.Equal(t, transaction.TypeIncome, params[1].Type)
				assert.True(t, params[0].Date.Equal(date("2026-01-02")))
			},
		},
		{
			name: "DifferentColumnOrder",
			args: args{
				csvContent: `Random;MetaData
Montante;Descrição;Data mov.;Ignored
-10,00;TEST_ORDER;30-01-2026;XXX
`,
			},
			wantLen: 1,
			verify: func(t *testing.T, params []transaction.CreateParams) {
				assert.Equal(t, "TEST_ORDER", params[0].Description)
				assert.Equal(t, "10", params[0].Amount.String())
			},
		},
		{
			name: "SkipsZeroAndFooterRows",
			args: args{
				csvContent: "date,description,amount\n" +
					"2024-01-01,zero,0\n" +
					"2024-01-02,bad amount,abc\n" +
					"2024-01-03,ok,-1.50\n" +
					"Total,,-1.50\n",
			},
			wantLen: 1,
		},
		{
			name: "MissingDescription",
			args: args{
				csvContent: "date,description,amount\n2024-01-03,,-1.50\n",
			},
			wantErr: true,
		},
		{
			name: "UnknownType",
			args: args{
				csvContent: "date,description,type,amount\n2024-01-03,x,Transfer,1.50\n",
			},
			wantErr: true,
		},
		{
			name: "NoHeader",
			args: args{
				csvContent: "foo,bar\n1,2\n",
			},
			wantErr: true,
		},
		{
			name:    "EmptyFile",
			args:    args{csvContent: ""},
			wantLen: 0,
		},
		{
			name:    "HeaderOnly",
			args:    args{csvContent: "Data mov.;Data-valor;Descrição;Montante"},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.NewParser().Parse(strings.NewReader(tt.args.csvContent))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)

			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}

func TestParser_Parse_Windows1252(t *testing.T) {
	// "Descrição" and "Café" encoded as Windows-1252.
	input := []byte("Data;Descri\xe7\xe3o;Montante\n01-02-2026;Caf\xe9;-2,50\n")

	got, err := importer.NewParser().Parse(bytes.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Café", got[0].Description)
	assert.Equal(t, "2.5", got[0].Amount.String())
}

func TestParser_Parse_AmountFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1234.56", want: "1234.56"},
		{in: "1,234.56", want: "1234.56"},
		{in: "1.234,56", want: "1234.56"},
		{in: "-10,00", want: "10"},
		{in: "1.234.567", want: "1234567"},
		{in: "€ 3,10", want: "3.1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			csv := "date;description;amount\n2024-01-01;x;" + tt.in + "\n"

			got, err := importer.NewParser().Parse(strings.NewReader(csv))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Amount.String())
		})
	}
}
