package models

import "fmt"

// TicketStatus is the closed set of ticket lifecycle states.
// Billing is not a status: it is the orthogonal Faturado flag on Ticket.
type TicketStatus string

const (
	StatusPendente    TicketStatus = "PENDENTE"
	StatusEmAndamento TicketStatus = "EM_ANDAMENTO"
	StatusConcluido   TicketStatus = "CONCLUIDO"
	StatusCancelado   TicketStatus = "CANCELADO"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusPendente:    true,
	StatusEmAndamento: true,
	StatusConcluido:   true,
	StatusCancelado:   true,
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

// RequiresReason reports whether moving a ticket to this status needs a
// non-empty reason (closing and cancelling must be explained).
func (ts TicketStatus) RequiresReason() bool {
	return ts == StatusConcluido || ts == StatusCancelado
}

// IsTerminal reports whether the status ends the active lifecycle.
func (ts TicketStatus) IsTerminal() bool {
	return ts == StatusConcluido || ts == StatusCancelado
}

// NewTicketStatus parses a status string, rejecting anything outside the
// closed set so typos never reach the database.
func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}

// EquipmentCondition describes the state an item arrived in.
type EquipmentCondition string

const (
	ConditionNovo       EquipmentCondition = "NOVO"
	ConditionUsado      EquipmentCondition = "USADO"
	ConditionDefeituoso EquipmentCondition = "DEFEITUOSO"
)

func (ec EquipmentCondition) IsValid() bool {
	return ec == ConditionNovo || ec == ConditionUsado || ec == ConditionDefeituoso
}

// EquipmentDeliveryStatus tracks custody of an item. RETIRADO (withdrawn from
// the client) moves to ENTREGUE (returned) exactly once and never back.
type EquipmentDeliveryStatus string

const (
	DeliveryRetirado EquipmentDeliveryStatus = "RETIRADO"
	DeliveryEntregue EquipmentDeliveryStatus = "ENTREGUE"
)

// HistoryActionType classifies ticket history ledger entries.
type HistoryActionType string

const (
	ActionStatusChange    HistoryActionType = "STATUS_CHANGE"
	ActionUserAssignment  HistoryActionType = "USER_ASSIGNMENT"
	ActionEquipmentStatus HistoryActionType = "EQUIPMENT_STATUS"
	ActionProgressNote    HistoryActionType = "PROGRESS_NOTE"
)
