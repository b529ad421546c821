//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/fitness-wizard/internal/bootstrap"
	"github.com/yanqian/fitness-wizard/internal/domain/bonus"
	"github.com/yanqian/fitness-wizard/internal/domain/delivery"
	"github.com/yanqian/fitness-wizard/internal/domain/document"
	"github.com/yanqian/fitness-wizard/internal/domain/plan"
	"github.com/yanqian/fitness-wizard/internal/domain/wizard"
	"github.com/yanqian/fitness-wizard/internal/infra/config"
	"github.com/yanqian/fitness-wizard/internal/infra/pdf"
	httpiface "github.com/yanqian/fitness-wizard/internal/interface/http"
	"github.com/yanqian/fitness-wizard/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideTracing,
		providePlanConfig,
		provideTokenCounter,
		provideLLMClient,
		provideMailer,
		provideValkeyClient,
		providePostgresPool,
		provideJobLog,
		provideClaimStore,
		provideArchive,
		provideBonusConfig,
		provideBonusTokens,
		provideDeliveryConfig,
		provideQueue,
		provideEnqueuer,
		provideTokenIssuer,
		pdf.NewRenderer,
		wire.Bind(new(document.Renderer), new(*pdf.Renderer)),
		plan.NewService,
		bonus.NewService,
		delivery.NewDispatcher,
		wizard.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
