package agent

import "github.com/kilobco/sb-voice-agent/internal/model"

// Tool surface advertised to the model at session setup. The set is closed;
// anything outside it answers with the apology payload instead of erroring
// into the session loop.

const (
	toolSearchMenu             = "searchMenu"
	toolManageOrder            = "manageOrder"
	toolCollectCustomerDetails = "collectCustomerDetails"
	toolCompleteOrder          = "completeOrder"
)

// Declarations returns the function declarations for the session setup
// message.
func Declarations() []model.FunctionDeclaration {
	return []model.FunctionDeclaration{
		{
			Name:        toolSearchMenu,
			Description: "Look up a menu item by name and return its exact name and price.",
			Parameters: &model.Schema{
				Type: "OBJECT",
				Properties: map[string]*model.Schema{
					"query": {Type: "STRING", Description: "The item the caller asked about."},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        toolManageOrder,
			Description: "Add an item to the order or remove one. Adding an item that is already in the order replaces its quantity.",
			Parameters: &model.Schema{
				Type: "OBJECT",
				Properties: map[string]*model.Schema{
					"action":   {Type: "STRING", Enum: []string{"add", "remove"}},
					"itemName": {Type: "STRING", Description: "Exact menu item name."},
					"quantity": {Type: "INTEGER", Description: "Number of units, at least 1."},
					"price":    {Type: "NUMBER", Description: "Unit price in dollars."},
					"notes":    {Type: "STRING", Description: "Customizations, if any."},
				},
				Required: []string{"action", "itemName", "quantity", "price"},
			},
		},
		{
			Name:        toolCollectCustomerDetails,
			Description: "Store the caller's name and phone number for the order.",
			Parameters: &model.Schema{
				Type: "OBJECT",
				Properties: map[string]*model.Schema{
					"customerName": {Type: "STRING"},
					"phoneNumber":  {Type: "STRING", Description: "Digits only, ten or eleven digits."},
				},
				Required: []string{"customerName", "phoneNumber"},
			},
		},
		{
			Name:        toolCompleteOrder,
			Description: "Finalize the order: save the customer, write the order, and return the order number and total.",
			Parameters: &model.Schema{
				Type: "OBJECT",
				Properties: map[string]*model.Schema{
					"customerName": {Type: "STRING"},
					"phoneNumber":  {Type: "STRING"},
				},
				Required: []string{"customerName", "phoneNumber"},
			},
		},
	}
}
