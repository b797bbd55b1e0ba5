package logger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// DriverLogger satisfies gocql.StdLogger and forwards the driver's messages
// to zerolog under component=gocql.
//
// gocql logs reconnects and dropped hosts through this interface; they are
// useful but noisy, so they go out at debug unless they look like errors.
type DriverLogger struct {
	log zerolog.Logger
}

// NewDriverLogger wraps base for use as gocql.ClusterConfig.Logger.
func NewDriverLogger(base zerolog.Logger) *DriverLogger {
	return &DriverLogger{
		log: base.With().Str("component", "gocql").Logger(),
	}
}

func (d *DriverLogger) Print(v ...interface{}) {
	d.emit(fmt.Sprint(v...))
}

func (d *DriverLogger) Printf(format string, v ...interface{}) {
	d.emit(fmt.Sprintf(format, v...))
}

func (d *DriverLogger) Println(v ...interface{}) {
	d.emit(fmt.Sprintln(v...))
}

func (d *DriverLogger) emit(msg string) {
	msg = strings.TrimSpace(msg)
	lower := strings.ToLower(msg)

	event := d.log.Debug()
	if strings.Contains(lower, "error") || strings.Contains(lower, "unable") || strings.Contains(lower, "failed") {
		event = d.log.Warn()
	}
	event.Msg(msg)
}
