package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Connected moderation consoles, fed pending-count updates so the badge
// in the console header stays live without polling.
var (
	consoleMu      sync.Mutex
	consoleClients = make(map[*websocket.Conn]bool)
)

var consoleBroadcast = make(chan ConsoleEvent, 50)

type ConsoleEvent struct {
	Type         string `json:"type"`
	SubmissionID string `json:"submission_id,omitempty"`
	PendingCount int64  `json:"pending_count"`
}

var consoleUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleConsoleWS upgrades a console connection and parks it until the
// peer goes away. The console never sends anything except pings.
func HandleConsoleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := consoleUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("console WS upgrade error:", err)
		return
	}
	defer conn.Close()

	consoleMu.Lock()
	consoleClients[conn] = true
	consoleMu.Unlock()

	for {
		var tmp interface{}
		if err := conn.ReadJSON(&tmp); err != nil {
			consoleMu.Lock()
			delete(consoleClients, conn)
			consoleMu.Unlock()
			return
		}
	}
}

// HandleConsoleMessages fans broadcast events out to every connected
// console. Run as a goroutine from main.
func HandleConsoleMessages() {
	for msg := range consoleBroadcast {
		consoleMu.Lock()
		for conn := range consoleClients {
			if err := conn.WriteJSON(msg); err != nil {
				log.Println("console WS send error:", err)
				conn.Close()
				delete(consoleClients, conn)
			}
		}
		consoleMu.Unlock()
	}
}

// SendSubmissionAlert tells open consoles a new submission arrived.
func SendSubmissionAlert(submissionID string, pending int64) {
	select {
	case consoleBroadcast <- ConsoleEvent{Type: "submission", SubmissionID: submissionID, PendingCount: pending}:
	default:
	}
}
