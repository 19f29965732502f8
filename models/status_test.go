package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus(t *testing.T) {
	t.Run("valid statuses", func(t *testing.T) {
		for _, status := range []TicketStatus{StatusPendente, StatusEmAndamento, StatusConcluido, StatusCancelado} {
			assert.True(t, status.IsValid(), "expected %s to be valid", status)
		}
	})

	t.Run("invalid statuses", func(t *testing.T) {
		for _, raw := range []string{"", "pendente", "DONE", "PENDENTE "} {
			assert.False(t, TicketStatus(raw).IsValid(), "expected %q to be invalid", raw)
		}
	})

	t.Run("terminal statuses require a reason", func(t *testing.T) {
		assert.True(t, StatusConcluido.RequiresReason())
		assert.True(t, StatusCancelado.RequiresReason())
		assert.False(t, StatusPendente.RequiresReason())
		assert.False(t, StatusEmAndamento.RequiresReason())
	})

	t.Run("terminal flag", func(t *testing.T) {
		assert.True(t, StatusConcluido.IsTerminal())
		assert.True(t, StatusCancelado.IsTerminal())
		assert.False(t, StatusPendente.IsTerminal())
	})

	t.Run("NewTicketStatus rejects unknown values", func(t *testing.T) {
		status, err := NewTicketStatus("EM_ANDAMENTO")
		assert.NoError(t, err)
		assert.Equal(t, StatusEmAndamento, status)

		_, err = NewTicketStatus("IN_PROGRESS")
		assert.Error(t, err)
	})
}

func TestEquipmentCondition(t *testing.T) {
	assert.True(t, ConditionNovo.IsValid())
	assert.True(t, ConditionUsado.IsValid())
	assert.True(t, ConditionDefeituoso.IsValid())
	assert.False(t, EquipmentCondition("BROKEN").IsValid())
}
