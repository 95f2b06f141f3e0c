package prefetch

import "strings"

// Route names a screen of the application whose data can be warmed.
type Route string

const (
	Dashboard    Route = "dashboard"
	Transactions Route = "transactions"
	Categories   Route = "categories"
	Cards        Route = "cards"
	Recurring    Route = "recurring"
	Budgets      Route = "budgets"
)

var related = map[Route][]Route{
	Dashboard:    {Transactions, Categories, Cards},
	Transactions: {Categories, Cards, Dashboard},
	Categories:   {Transactions, Budgets},
	Cards:        {Transactions},
	Recurring:    {Transactions, Categories, Cards},
	Budgets:      {Categories, Transactions},
}

// Related returns the routes usually visited after route.
func Related(route Route) []Route {
	return append([]Route(nil), related[route]...)
}

var pathRoutes = map[string]Route{
	"/api/summary":      Dashboard,
	"/api/transactions": Transactions,
	"/api/categories":   Categories,
	"/api/cards":        Cards,
	"/api/recurring":    Recurring,
	"/api/budgets":      Budgets,
}

// RouteForPath maps an API collection path to its route.
func RouteForPath(path string) (Route, bool) {
	route, ok := pathRoutes[strings.TrimSuffix(path, "/")]
	return route, ok
}
