package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assistec/assistec-api/controllers"
	"github.com/assistec/assistec-api/models"
	"github.com/assistec/assistec-api/services"
	"github.com/assistec/assistec-api/tests/testutil"
)

// TestServiceOrderAcceptance walks the full business scenario through the API:
// register a company, withdraw its equipment, open a service order, work it,
// return the equipment, complete and invoice the order, then audit the trail.
func TestServiceOrderAcceptance(t *testing.T) {
	testutil.MustSetTestEnvironment()
	gin.SetMode(gin.TestMode)
	db := testutil.SetupTestDB(t)

	admin := models.User{Auth0ID: "auth0|acceptance-admin", Name: "Gerente", Email: "gerente@assistec.test", Role: "admin", Active: true}
	require.NoError(t, db.Create(&admin).Error)
	tech := models.User{Auth0ID: "auth0|acceptance-tech", Name: "Tecnico", Email: "tecnico@assistec.test", Role: "user", Active: true}
	require.NoError(t, db.Create(&tech).Error)

	services.InitActorResolver(nil)
	services.InitWorkflowService()

	router := gin.New()
	v1 := router.Group("/api/v1")
	authorized := v1.Group("")
	authorized.Use(testutil.MockAuthMiddleware(admin.Auth0ID, "admin"))
	{
		authorized.POST("/clients", controllers.CreateClient)
		authorized.POST("/tickets", controllers.CreateTicket)
		authorized.GET("/tickets/:id", controllers.GetTicket)
		authorized.PATCH("/tickets/:id/status", controllers.ChangeTicketStatus)
		authorized.PATCH("/tickets/:id/assign", controllers.AssignTicket)
		authorized.POST("/tickets/:id/notes", controllers.AddProgressNote)
		authorized.POST("/tickets/:id/billing", controllers.MarkTicketBilled)
		authorized.GET("/tickets/:id/history", controllers.GetTicketHistory)
		authorized.POST("/equipments", controllers.CreateEquipment)
		authorized.PATCH("/equipments/:id/deliver", controllers.DeliverEquipment)
	}

	doJSON := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// A company walks in with a broken notebook
	w := doJSON(http.MethodPost, "/api/v1/clients", gin.H{
		"cnpj":       "11.222.333/0001-81",
		"legal_name": "Padaria Estrela LTDA",
		"trade_name": "Padaria Estrela",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var clientResp struct {
		Data models.Client `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &clientResp))

	// A service order is opened
	w = doJSON(http.MethodPost, "/api/v1/tickets", gin.H{
		"client_id":   clientResp.Data.ID,
		"description": "Notebook nao liga",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var ticketResp struct {
		Data models.Ticket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticketResp))
	ticketID := ticketResp.Data.ID
	assert.Equal(t, models.StatusPendente, ticketResp.Data.Status)

	// The notebook is withdrawn and linked to the order
	w = doJSON(http.MethodPost, "/api/v1/equipments", gin.H{
		"client_id":   clientResp.Data.ID,
		"ticket_id":   ticketID,
		"description": "Notebook Acer Aspire",
		"condition":   "DEFEITUOSO",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var equipmentResp struct {
		Data models.Equipment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &equipmentResp))

	// Work happens
	w = doJSON(http.MethodPatch, fmt.Sprintf("/api/v1/tickets/%d/assign", ticketID), gin.H{"user_id": tech.ID})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(http.MethodPatch, fmt.Sprintf("/api/v1/tickets/%d/status", ticketID), gin.H{"status": "EM_ANDAMENTO"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(http.MethodPost, fmt.Sprintf("/api/v1/tickets/%d/notes", ticketID), gin.H{"text": "fonte queimada, substituida"})
	require.Equal(t, http.StatusCreated, w.Code)

	// The notebook goes home
	w = doJSON(http.MethodPatch, fmt.Sprintf("/api/v1/equipments/%d/deliver", equipmentResp.Data.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The order is completed and invoiced
	w = doJSON(http.MethodPatch, fmt.Sprintf("/api/v1/tickets/%d/status", ticketID), gin.H{"status": "CONCLUIDO", "reason": "reparo concluido e testado"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(http.MethodPost, fmt.Sprintf("/api/v1/tickets/%d/billing", ticketID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Final state
	var ticket models.Ticket
	require.NoError(t, db.First(&ticket, ticketID).Error)
	assert.Equal(t, models.StatusConcluido, ticket.Status)
	assert.True(t, ticket.Faturado)

	var equipment models.Equipment
	require.NoError(t, db.First(&equipment, equipmentResp.Data.ID).Error)
	assert.Equal(t, models.DeliveryEntregue, equipment.Status)

	// The audit trail tells the whole story, newest first
	w = doJSON(http.MethodGet, fmt.Sprintf("/api/v1/tickets/%d/history", ticketID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Data []models.TicketHistory `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Data, 6)

	actions := make([]models.HistoryActionType, 0, len(history.Data))
	for _, entry := range history.Data {
		actions = append(actions, entry.ActionType)
	}
	assert.Equal(t, []models.HistoryActionType{
		models.ActionStatusChange,    // Faturado
		models.ActionStatusChange,    // CONCLUIDO
		models.ActionEquipmentStatus, // ENTREGUE
		models.ActionProgressNote,
		models.ActionStatusChange, // EM_ANDAMENTO
		models.ActionUserAssignment,
	}, actions)

	// Nothing can touch the order anymore
	w = doJSON(http.MethodPatch, fmt.Sprintf("/api/v1/tickets/%d/status", ticketID), gin.H{"status": "PENDENTE"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
