package chat

// Suggestion 是欢迎面板上的示例问题
type Suggestion struct {
	Category string
	Text     string
}

var suggestions = []Suggestion{
	{Category: "Users", Text: "Show all users who signed up last week"},
	{Category: "Inventory", Text: "Find products with inventory below 10 units"},
	{Category: "Analytics", Text: "What are the top 5 most ordered products?"},
	{Category: "Transactions", Text: "Show transactions over $1000"},
	{Category: "Schema", Text: "List tables in the database"},
	{Category: "Relationships", Text: "Find customers with no orders"},
}

// Suggestions 返回示例问题的副本
func Suggestions() []Suggestion {
	out := make([]Suggestion, len(suggestions))
	copy(out, suggestions)
	return out
}
