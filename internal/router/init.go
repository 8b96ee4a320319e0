package router

import (
	"github.com/mixfeed/mixfeed/internal/application"
	"github.com/mixfeed/mixfeed/internal/container"
	handlers "github.com/mixfeed/mixfeed/internal/interface/http"
	"github.com/mixfeed/mixfeed/internal/router/modules"
)

type ModuleDeps struct {
	Accounts  *application.AccountService
	Social    *application.SocialService
	Playlists *application.PlaylistService
	Search    *application.SearchService

	AccountHandler  *handlers.AccountHandler
	UserHandler     *handlers.UserHandler
	PlaylistHandler *handlers.PlaylistHandler
	SearchHandler   *handlers.SearchHandler
}

func buildDeps() ModuleDeps {
	cfg := container.GetConfig()
	store := container.GetStore()
	logger := container.GetLogger()

	accounts := application.NewAccountService(
		store,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRabbitPub(),
		container.GetES(),
		cfg.ESUsersIndex,
	)
	social := application.NewSocialService(store, container.GetRedis(), logger)
	playlists := application.NewPlaylistService(store, social, logger, container.GetES(), cfg.ESPlaylistsIndex)
	search := application.NewSearchService(store, logger, container.GetES(), cfg.ESUsersIndex)

	return ModuleDeps{
		Accounts:  accounts,
		Social:    social,
		Playlists: playlists,
		Search:    search,

		AccountHandler:  handlers.NewAccountHandler(accounts, logger),
		UserHandler:     handlers.NewUserHandler(accounts, social, logger),
		PlaylistHandler: handlers.NewPlaylistHandler(playlists, social, logger),
		SearchHandler:   handlers.NewSearchHandler(search, logger),
	}
}

// InitModules wires every feature module and registers it with the router
// registry. Called once during application startup, after the container has
// been populated.
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(deps.AccountHandler, jwt))
	r.Add(modules.NewUserModule(deps.AccountHandler, deps.UserHandler, jwt))
	r.Add(modules.NewPlaylistModule(deps.PlaylistHandler, jwt))
	r.Add(modules.NewSearchModule(deps.SearchHandler, jwt))
}
