package live

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/dinesync/dinesync/models"
)

// Event types pushed to connected clients. Table-side clients subscribe to
// their session instead of polling for joins and total changes.
const (
	EventSessionUpdate  = "session_update"
	EventCustomerJoined = "customer_joined"
	EventTotalUpdate    = "total_update"
	EventSessionBilled  = "session_billed"
	EventSessionCleared = "session_cleared"
	EventOrderUpdate    = "order_update"
	EventTableUpdate    = "table_update"
	EventPaymentUpdate  = "payment_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	role string
	// sessionID is empty for staff clients, which receive every event
	sessionID string
}

// Hub fans events out to staff dashboards and to diners watching one
// session.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
	logger  *logrus.Logger
}

var hub = Hub{
	clients: make(map[*websocket.Conn]client),
	logger:  logrus.New(),
}

// RegisterStaff adds a staff connection that receives all events.
func RegisterStaff(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = client{role: role}
}

// RegisterDiner adds a table-side connection scoped to one session.
func RegisterDiner(conn *websocket.Conn, sessionID string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = client{role: "diner", sessionID: sessionID}
}

// Unregister drops a connection and closes it.
func Unregister(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastSessionUpdate announces a newly opened session to the staff
// dashboards.
func BroadcastSessionUpdate(session models.Session) {
	broadcast(session.ID, Message{
		Event: EventSessionUpdate,
		Data:  session,
	})
}

// BroadcastCustomerJoined announces a new roster entry to the session.
func BroadcastCustomerJoined(session models.Session, customer models.SessionCustomer) {
	broadcast(session.ID, Message{
		Event: EventCustomerJoined,
		Data: map[string]interface{}{
			"session_id": session.ID,
			"customer":   customer,
		},
	})
}

// BroadcastTotalUpdate announces a recomputed session total.
func BroadcastTotalUpdate(sessionID string, total int64) {
	broadcast(sessionID, Message{
		Event: EventTotalUpdate,
		Data: map[string]interface{}{
			"session_id":   sessionID,
			"total_amount": total,
		},
	})
}

// BroadcastSessionBilled announces that the session has been closed for
// settlement.
func BroadcastSessionBilled(session models.Session) {
	broadcast(session.ID, Message{
		Event: EventSessionBilled,
		Data:  session,
	})
}

// BroadcastSessionCleared announces that the session is gone.
func BroadcastSessionCleared(sessionID string) {
	broadcast(sessionID, Message{
		Event: EventSessionCleared,
		Data:  map[string]interface{}{"session_id": sessionID},
	})
}

// BroadcastOrderUpdate pushes an order change to its session and the staff.
func BroadcastOrderUpdate(order models.Order) {
	sessionID := ""
	if order.SessionID != nil {
		sessionID = *order.SessionID
	}
	broadcast(sessionID, Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastTableUpdate pushes a table status change to staff clients.
func BroadcastTableUpdate(table models.Table) {
	broadcast("", Message{
		Event: EventTableUpdate,
		Data:  table,
	})
}

// BroadcastPaymentUpdate pushes a settlement status change.
func BroadcastPaymentUpdate(payment models.Payment) {
	broadcast(payment.SessionID, Message{
		Event: EventPaymentUpdate,
		Data:  payment,
	})
}

// broadcast sends the message to every staff client, plus diner clients
// subscribed to sessionID when it is set.
func broadcast(sessionID string, msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		hub.logger.Errorf("marshaling %s event: %v", msg.Event, err)
		return
	}

	for conn, cl := range hub.clients {
		if cl.sessionID != "" && cl.sessionID != sessionID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			hub.logger.Errorf("sending %s event to %s client: %v", msg.Event, cl.role, err)
		}
	}
}
