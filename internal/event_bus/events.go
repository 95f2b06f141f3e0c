package event_bus

const EntityMutatedEvent EventType = "finance.entity.mutated"

type EntityKind string

const (
	CategoryEntity    EntityKind = "category"
	CardEntity        EntityKind = "card"
	TransactionEntity EntityKind = "transaction"
	RecurringEntity   EntityKind = "recurring"
	BudgetEntity      EntityKind = "budget"
)

type Operation string

const (
	Created Operation = "created"
	Updated Operation = "updated"
	Deleted Operation = "deleted"
)

// EntityMutated is published after a successful remote write of one of the
// finance entities.
type EntityMutated struct {
	Kind      EntityKind
	Operation Operation
	UserId    int
	EntityId  string
}
