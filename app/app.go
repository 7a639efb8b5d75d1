package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/pr4th4meshh/respondly/config"
	"github.com/pr4th4meshh/respondly/store"
)

// App bundles the process-wide collaborators handed to every
// controller: the shared db handle, the form store over it, the bearer
// token server and the parsed config.
type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
	Forms store.Forms
}
