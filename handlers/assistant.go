package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/conversation"
	"healthguide/services/discovery"
	"healthguide/services/intake"
	"healthguide/services/medication"
	"healthguide/services/orchestrator"
	"healthguide/services/quickaction"
	"healthguide/services/remote"
	"healthguide/utils"
)

// AssistantHandler serves the triage journey of one browser session.
type AssistantHandler struct {
	registry *orchestrator.Registry
}

func NewAssistantHandler(registry *orchestrator.Registry) *AssistantHandler {
	return &AssistantHandler{registry: registry}
}

// orchestrator resolves the browser session set by the ClientSession middleware.
func (h *AssistantHandler) orchestrator(c *gin.Context) (*orchestrator.Orchestrator, bool) {
	clientID := c.GetString(utils.ClientIDKey)
	if clientID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Missing browser session", "")
		return nil, false
	}
	return h.registry.Get(c.Request.Context(), clientID), true
}

func (h *AssistantHandler) view(c *gin.Context, o *orchestrator.Orchestrator) models.AssistantView {
	return o.View(models.ProviderType(c.Query("filter")))
}

// GET /api/assistant/state
func (h *AssistantHandler) GetState(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	if filter := c.Query("filter"); filter != "" && !models.ProviderType(filter).Valid() {
		utils.JSONError(c, http.StatusBadRequest, "Invalid provider filter", filter)
		return
	}
	c.JSON(http.StatusOK, h.view(c, o))
}

// POST /api/assistant/symptoms
func (h *AssistantHandler) SubmitSymptoms(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var sel models.SymptomSelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid symptom selection", err.Error())
		return
	}
	o.SubmitSymptoms(c.Request.Context(), sel)
	c.JSON(http.StatusAccepted, h.view(c, o))
}

// POST /api/assistant/temperature
func (h *AssistantHandler) SubmitTemperature(c *gin.Context) {
	logger := getLogger(c)
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var reading models.TemperatureReading
	if err := c.ShouldBindJSON(&reading); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid temperature reading", err.Error())
		return
	}
	if _, err := o.SubmitTemperature(c.Request.Context(), reading); err != nil {
		var tempErr *intake.TemperatureError
		switch {
		case errors.Is(err, intake.ErrInvalidReading):
			utils.JSONError(c, http.StatusBadRequest, "Invalid temperature reading", err.Error())
		case errors.As(err, &tempErr):
			logger.Warn("temperature assessment failed", zap.Error(err))
			utils.JSONError(c, http.StatusBadGateway, tempErr.Message, "")
		default:
			utils.JSONError(c, http.StatusBadGateway, "Failed to assess temperature", err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, h.view(c, o))
}

type chatRequest struct {
	Message string             `json:"message"`
	Kind    models.MessageKind `json:"kind,omitempty"`
}

type chatResponse struct {
	Turn conversation.Turn    `json:"turn"`
	View models.AssistantView `json:"view"`
}

// POST /api/assistant/chat
func (h *AssistantHandler) Chat(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid chat message", err.Error())
		return
	}
	turn, err := o.Chat(c.Request.Context(), req.Message, req.Kind)
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		utils.JSONError(c, http.StatusBadRequest, "Message is empty", "")
		return
	case errors.Is(err, conversation.ErrInputDisabled):
		utils.JSONError(c, http.StatusConflict, "Conversation is not accepting input", "")
		return
	case err != nil:
		utils.JSONError(c, http.StatusServiceUnavailable, "Conversation unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, chatResponse{Turn: turn, View: h.view(c, o)})
}

// POST /api/assistant/location/gps
func (h *AssistantHandler) ReportGPS(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var fix discovery.Fix
	if err := c.ShouldBindJSON(&fix); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid position", err.Error())
		return
	}
	if err := o.ReportGPS(c.Request.Context(), fix); err != nil {
		c.JSON(locationStatus(err), h.view(c, o))
		return
	}
	c.JSON(http.StatusOK, h.view(c, o))
}

// POST /api/assistant/location/manual
func (h *AssistantHandler) ManualLocation(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var q discovery.ManualQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid location query", err.Error())
		return
	}
	if err := o.ManualLocation(c.Request.Context(), q); err != nil {
		c.JSON(locationStatus(err), h.view(c, o))
		return
	}
	c.JSON(http.StatusOK, h.view(c, o))
}

// locationStatus maps a location failure onto a status. The body is still
// the view, whose location_error carries the user message.
func locationStatus(err error) int {
	switch {
	case errors.Is(err, discovery.ErrEmptyLocationQuery):
		return http.StatusBadRequest
	case errors.Is(err, discovery.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, discovery.ErrNoProviders), errors.Is(err, discovery.ErrGeocoderUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusUnprocessableEntity
}

// POST /api/assistant/providers/close
func (h *AssistantHandler) CloseProviders(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	o.CloseProviders()
	c.JSON(http.StatusOK, h.view(c, o))
}

// POST /api/assistant/ambulance/dismiss
func (h *AssistantHandler) DismissAmbulancePrompt(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	o.DismissAmbulancePrompt()
	c.JSON(http.StatusOK, h.view(c, o))
}

// POST /api/assistant/quick-actions/:intent
//
// find-doctor without a body starts in the background and waits for the
// browser to post its position to /location/gps.
func (h *AssistantHandler) QuickAction(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	intent := quickaction.Intent(c.Param("intent"))
	if !quickaction.Known(intent) {
		utils.JSONError(c, http.StatusNotFound, "Unknown quick action", string(intent))
		return
	}

	var fix *discovery.Fix
	if c.Request.ContentLength > 0 {
		fix = &discovery.Fix{}
		if err := c.ShouldBindJSON(fix); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid position", err.Error())
			return
		}
	}

	if intent == quickaction.IntentFindDoctor && fix == nil {
		if err := o.StartQuickAction(intent); err != nil {
			utils.JSONError(c, http.StatusNotFound, "Unknown quick action", err.Error())
			return
		}
		c.JSON(http.StatusAccepted, h.view(c, o))
		return
	}
	if err := o.QuickAction(c.Request.Context(), intent, fix); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Quick action failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.view(c, o))
}

// GET /api/assistant/reminders
func (h *AssistantHandler) ListReminders(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	reminders, err := o.ListReminders(c.Request.Context())
	if err != nil {
		reminderError(c, err, "Failed to load reminders")
		return
	}
	if reminders == nil {
		reminders = []models.MedicationReminder{}
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// POST /api/assistant/reminders
func (h *AssistantHandler) CreateReminder(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	var req models.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid reminder", err.Error())
		return
	}
	reminder, err := o.CreateReminder(c.Request.Context(), req)
	if err != nil {
		reminderError(c, err, "Failed to create reminder")
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

// DELETE /api/assistant/reminders/:id
func (h *AssistantHandler) StopReminder(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid reminder id", c.Param("id"))
		return
	}
	if err := o.StopReminder(c.Request.Context(), id); err != nil {
		reminderError(c, err, "Failed to stop reminder")
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/assistant/reminders/frequency-options
func (h *AssistantHandler) FrequencyOptions(c *gin.Context) {
	o, ok := h.orchestrator(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": o.FrequencyOptions(c.Request.Context())})
}

func reminderError(c *gin.Context, err error, message string) {
	var apiErr *remote.APIError
	switch {
	case errors.Is(err, medication.ErrNoSession):
		utils.JSONError(c, http.StatusConflict, message, err.Error())
	case errors.Is(err, medication.ErrMissingName), errors.Is(err, medication.ErrMissingDosage),
		errors.Is(err, medication.ErrInvalidDuration), errors.Is(err, medication.ErrInvalidFrequency):
		utils.JSONError(c, http.StatusBadRequest, message, err.Error())
	case errors.As(err, &apiErr):
		utils.JSONError(c, http.StatusBadGateway, message, apiErr.Detail)
	default:
		utils.JSONError(c, http.StatusBadGateway, message, err.Error())
	}
}

// HealthHandler reports the last store and remote API probe.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm HealthGuide", "checks": status})
}
