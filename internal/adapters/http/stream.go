package httpadapter

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func randomSeed() int64 { return time.Now().UnixNano() }

var log = logrus.New()

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API is a local benchmark tool; cross-origin dashboards may
	// connect to it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// progressEvent is pushed once per generated instance on the stream.
type progressEvent struct {
	Index      int     `json:"index"`
	Total      int     `json:"total"`
	Seed       int64   `json:"seed"`
	Filled     int     `json:"filled"`
	Density    float64 `json:"density"`
	DurationMs int64   `json:"durationMs"`
	Nodes      int     `json:"nodes"`
	Retries    int     `json:"retries"`
	Done       bool    `json:"done"`
	Error      string  `json:"error,omitempty"`
}

// handleGenerateStream upgrades to a websocket and generates `count`
// instances, emitting one event per instance and a final done event.
// Query parameters: blockSize, density, count, seed (optional).
func (h *Handler) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	blockSize, _ := strconv.Atoi(q.Get("blockSize"))
	density, _ := strconv.ParseFloat(q.Get("density"), 64)
	count, _ := strconv.Atoi(q.Get("count"))
	if count <= 0 {
		count = 1
	}
	seed, _ := strconv.ParseInt(q.Get("seed"), 10, 64)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for i := 1; i <= count; i++ {
		jobSeed := seed + int64(i) - 1
		if seed == 0 {
			jobSeed = randomSeed()
		}
		inst, st, err := h.UC.Generate(r.Context(), blockSize, jobSeed, density)
		ev := progressEvent{
			Index:      i,
			Total:      count,
			Seed:       jobSeed,
			DurationMs: st.Duration.Milliseconds(),
			Nodes:      st.Nodes,
			Retries:    st.Retries,
		}
		if err != nil {
			ev.Error = err.Error()
			_ = conn.WriteJSON(ev)
			break
		}
		ev.Filled = inst.Grid.Filled()
		ev.Density = inst.FilledFraction()
		if werr := conn.WriteJSON(ev); werr != nil {
			log.WithError(werr).Debug("stream client went away")
			return
		}
	}
	_ = conn.WriteJSON(progressEvent{Total: count, Done: true})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
