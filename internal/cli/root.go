package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/julianstephens/rota/internal/models"
	"github.com/julianstephens/rota/internal/service"
	"github.com/julianstephens/rota/internal/storage"
	"github.com/julianstephens/rota/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Service *service.Service
	// Registry backs the /metrics endpoint of `rota serve`.
	Registry *prometheus.Registry
	Out      io.Writer
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) today() time.Time {
	if c.Service != nil && c.Service.Now != nil {
		return utils.Date(c.Service.Now())
	}
	return utils.Today()
}

// parseDay resolves a date argument, with "today" relative to the service clock.
func (c *Context) parseDay(s string) (time.Time, error) {
	if s == "today" {
		return c.today(), nil
	}
	return utils.ParseDate(s)
}

func weekLabel(day time.Time) string {
	return models.WeekOf(day).Label()
}
