package cmd

import (
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/EO-DataHub/eodhp-group-services/api/handlers"
	"github.com/EO-DataHub/eodhp-group-services/api/middleware"
	"github.com/EO-DataHub/eodhp-group-services/api/services"
	"github.com/EO-DataHub/eodhp-group-services/api/views"
	docs "github.com/EO-DataHub/eodhp-group-services/docs"
	"github.com/EO-DataHub/eodhp-group-services/internal/appconfig"
	awsclient "github.com/EO-DataHub/eodhp-group-services/internal/aws"
	"github.com/EO-DataHub/eodhp-group-services/internal/events"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title EODHP Group Services API
// @version v1
// @description This is the API for managing group membership.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for the group admin pages and API",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer groupDB.Close()

		publisher := initializePublisher(appCfg.Pulsar)
		defer publisher.Close()

		service := &services.MembershipService{
			Store:     groupDB,
			Publisher: publisher,
		}

		if appCfg.Notifications.Enabled {
			mailer, err := initializeMailer(appCfg)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to initialize SES client")
			}
			service.Mailer = mailer
		}

		r := newRouter(appCfg, service)

		log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", host, port), r); err != nil {
			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}

// newRouter registers the admin pages, the JSON API and the docs. With
// auth enabled both the pages and the API require a Bearer token, which for
// browser traffic has to be added by a gateway in front of the service.
func newRouter(cfg *appconfig.Config, service *services.MembershipService) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.WithLogger)

	// HTML pages; the form action and edit links are absolute paths
	ui := r.PathPrefix("/groups").Subrouter()
	ui.HandleFunc("/remove-member", handlers.RemoveMemberForm(service)).Methods(http.MethodPost)
	ui.HandleFunc("/{group-id}", handlers.GetGroupPage(service)).Methods(http.MethodGet)

	apiBase := path.Join("/", cfg.BasePath, "api")
	api := r.PathPrefix(apiBase).Subrouter()
	api.HandleFunc("/groups/{group-id}/members", handlers.GetGroupMembers(service)).Methods(http.MethodGet)
	api.HandleFunc("/groups/{group-id}/members/{user-id}", handlers.RemoveGroupMember(service)).Methods(http.MethodDelete)

	if cfg.Auth.Enabled {
		for _, sub := range []*mux.Router{ui, api} {
			sub.Use(middleware.JWTMiddleware)
			sub.Use(middleware.RequireRole(cfg.Auth.AdminRole))
		}
	}

	// Docs
	docs.SwaggerInfo.Host = cfg.Host
	docs.SwaggerInfo.BasePath = apiBase
	r.PathPrefix(cfg.DocsPath).Handler(httpSwagger.Handler(
		httpSwagger.URL(path.Join(cfg.DocsPath, "/doc.json")),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	log.Debug().Str("remove_action", views.RemoveMemberPath).Str("api", apiBase).Msg("Routes registered")
	return r
}

// initializePublisher connects to Pulsar, or returns a no-op notifier when
// no URL is configured.
func initializePublisher(cfg appconfig.PulsarConfig) events.Notifier {
	if cfg.URL == "" {
		log.Warn().Msg("No Pulsar URL configured, membership events will not be published")
		return events.NopNotifier{}
	}

	publisher, err := events.NewEventPublisher(cfg.URL, cfg.TopicProducer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize event publisher")
	}
	return publisher
}

func initializeMailer(cfg *appconfig.Config) (*services.SESMailer, error) {
	awsCfg, err := awsclient.LoadAWSConfig(context.Background(), cfg.AWS.Region)
	if err != nil {
		return nil, err
	}

	return &services.SESMailer{
		Client: awsclient.NewSESClient(awsCfg),
		Sender: cfg.Notifications.SenderEmail,
	}, nil
}
