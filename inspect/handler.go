package inspect

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/gokit-di/di"
	"github.com/kbukum/gokit-di/errors"
)

// Path is the route Register mounts the handler on.
const Path = "/di/recipes"

// Response is the JSON envelope served by Handler.
type Response struct {
	Data  []Entry `json:"data"`
	Total int     `json:"total"`
}

// Handler serves the snapshot of r. The optional "type" query parameter
// selects a single entry by its type string, e.g. ?type=*app.Engine.
func Handler(r *di.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := Snapshot(r)
		if t := c.Query("type"); t != "" {
			entries = filter(entries, t)
			if len(entries) == 0 {
				appErr := errors.NotFound("recipe", t)
				c.JSON(appErr.Code.HTTPStatus(), appErr.ToResponse())
				return
			}
		}
		c.JSON(http.StatusOK, Response{Data: entries, Total: len(entries)})
	}
}

// Register mounts Handler on router at Path.
func Register(router gin.IRoutes, r *di.Resolver) {
	router.GET(Path, Handler(r))
}

func filter(entries []Entry, typ string) []Entry {
	for _, e := range entries {
		if e.Type == typ {
			return []Entry{e}
		}
	}
	return nil
}
