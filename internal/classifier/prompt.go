package classifier

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

const promptTemplate = `STRICTLY classify this transaction into ONE category from this exact list:
%s

RULES:
1. Income = salary, freelance payments, investments
2. Housing = rent, mortgage, utilities
3. Transportation = fuel, public transit, vehicle maintenance
4. Food = groceries, restaurants, delivery
5. Shopping = retail purchases, online orders
6. Services = subscriptions, repairs, professional services

EXAMPLES:
- "netflix subscription" → Services
- "amazon purchase" → Shopping
- "salary deposit" → Income
- "shell gas station" → Transportation
- "Burger King" → Food

Return ONLY the category name in Title Case. No explanations.
Description: %s
`

// BuildPrompt renders the instruction sent to the model for a single description.
func BuildPrompt(description string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(category.Names(), ", "), description)
}
