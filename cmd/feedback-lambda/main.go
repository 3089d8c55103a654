// Command feedback-lambda runs the feedback intake handler behind API Gateway.
package main

import (
	"context"

	"github.com/NomadCrew/feedback-intake/config"
	"github.com/NomadCrew/feedback-intake/internal/gateway"
	"github.com/NomadCrew/feedback-intake/internal/intake"
	"github.com/NomadCrew/feedback-intake/internal/provision"
	"github.com/NomadCrew/feedback-intake/logger"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}

	// Shared clients are built during cold start and reused by warm invocations.
	providers, err := provision.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalw("Failed to provision collaborators", "error", err)
	}

	h := intake.NewHandler(providers.Stores, providers.Notifiers, cfg.Notifier.Topic,
		intake.WithNotificationPolicy(provision.Policy(cfg.Intake.NotificationPolicy)),
		intake.WithMetrics(intake.NewMetrics(prometheus.NewRegistry())),
	)

	log.Infow("Starting feedback lambda",
		"store", cfg.Store.Driver,
		"notifier", cfg.Notifier.Driver,
		"provisioning", cfg.Intake.Provisioning,
		"policy", cfg.Intake.NotificationPolicy)

	lambda.Start(gateway.NewAPIGatewayHandler(h))
}
