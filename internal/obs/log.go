package obs

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

var (
	logMu  sync.Mutex
	logOut = os.Stdout
)

// LogRequest emits one JSON log line. A ts field is stamped on every entry;
// callers provide the rest.
func LogRequest(entry map[string]any) {
	line := make(map[string]any, len(entry)+1)
	for k, v := range entry {
		line[k] = v
	}
	line["ts"] = time.Now().UTC().Format(time.RFC3339Nano)

	logMu.Lock()
	defer logMu.Unlock()
	if err := json.NewEncoder(logOut).Encode(line); err != nil {
		_, _ = logOut.WriteString(`{"level":"error","msg":"log encode failed"}` + "\n")
	}
}
