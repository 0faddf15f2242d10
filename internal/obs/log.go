package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

const serviceName = "orgbase-api"

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared line-oriented logger. Everything the service
// logs goes through it as one JSON object per line.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// Emit writes one structured log line, stamping the service name so lines
// from different components aggregate under a single label.
func Emit(entry map[string]any) {
	if _, ok := entry["service"]; !ok {
		entry["service"] = serviceName
	}
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"service":"` + serviceName + `","level":"error","msg":"log marshal failed"}`)
		return
	}
	Logger().Println(string(data))
}
