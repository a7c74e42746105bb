package rooms

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/domain"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/json"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/validate"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/infrastructure/ws"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/presentation/utils"
	"github.com/Ale8Daniel8Armas/ChatMultisalaBack/internal/session"
)

var validatePIN = validate.Field("pin", validate.Required(), validate.Length(domain.PINLength), validate.DigitsOnly())

type Handler struct {
	manager *session.Manager
	hub     *ws.Hub
	core    *ws.Core
}

func NewHandler(manager *session.Manager, hub *ws.Hub, core *ws.Core) *Handler {
	return &Handler{
		manager: manager,
		hub:     hub,
		core:    core,
	}
}

// ListRoomsHandler godoc
// @Summary      List joinable rooms
// @Description  Returns every room that currently has at least one member
// @Tags         rooms
// @Produce      json
// @Success      200 {array} session.RoomSummary "Active rooms"
// @Router       /rooms [get]
func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	json.Write(w, http.StatusOK, h.manager.ListRooms())
}

// CreateRoomHandler godoc
// @Summary      Create a new room
// @Description  Creates a room owned by the calling device and returns its pin
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body createRoomRequest true "Room creation parameters"
// @Success      201 {object} createRoomResponse "Room created successfully"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error"
// @Failure      409 {object} map[string]interface{} "Conflict - device already holds a session"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /rooms [post]
func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	deviceID := utils.DeviceID(r)
	if deviceID == "" {
		json.WriteValidationError(w, errors.New("device id is required"))
		return
	}

	room, err := h.manager.CreateRoom("", deviceID, req.Nickname, req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDeviceElsewhere):
			json.WriteError(w, http.StatusConflict, err, "Device already holds a session")
		case errors.Is(err, domain.ErrInvalidArgument):
			json.WriteValidationError(w, err)
		default:
			log.Printf("Failed to create room for device %s: %v", deviceID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusCreated, createRoomResponse{
		PIN:       room.PIN,
		Limit:     room.Limit,
		CreatedAt: room.CreatedAt,
	})
}

// GetRoomHandler godoc
// @Summary      Get room details
// @Description  Returns the room's member roster and capacity
// @Tags         rooms
// @Produce      json
// @Param        pin path string true "Room pin"
// @Success      200 {object} roomResponse "Room details"
// @Failure      404 {object} map[string]interface{} "Room not found"
// @Router       /rooms/{pin} [get]
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	pin := chi.URLParam(r, "pin")
	if err := validatePIN(pin); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	room, ok := h.manager.GetRoom(pin)
	if !ok {
		json.WriteError(w, http.StatusNotFound, domain.ErrRoomNotFound, "Room not found")
		return
	}

	json.Write(w, http.StatusOK, roomResponse{
		PIN:       room.PIN,
		Users:     room.Members,
		Limit:     room.Limit,
		CreatedAt: room.CreatedAt,
	})
}

// ConnectHandler godoc
// @Summary      Open the WebSocket session
// @Description  Upgrades the connection; all room operations flow over the socket afterwards
// @Tags         rooms
// @Param        deviceId query string true "Stable device identifier"
// @Success      101 {object} map[string]interface{} "Switching Protocols"
// @Failure      400 {object} map[string]interface{} "Bad request - missing device id"
// @Router       /ws [get]
func (h *Handler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	deviceID := utils.DeviceID(r)
	if deviceID == "" {
		json.WriteValidationError(w, errors.New("deviceId query parameter is required"))
		return
	}

	conn, err := h.hub.Upgrade(w, r)
	if err != nil {
		log.Printf("WebSocket upgrade failed for device %s: %v", deviceID, err)
		return
	}

	client := ws.NewClient(conn, uuid.NewString(), deviceID, r.RemoteAddr)

	h.core.Register() <- client

	go client.WriteMessage()
	go client.ReadMessage(h.core)

	log.Printf("Device %s connected as client %s", deviceID, client.ID)
}
