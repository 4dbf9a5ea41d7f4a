//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/pawpulse/internal/bootstrap"
	"github.com/yanqian/pawpulse/internal/domain/environment"
	"github.com/yanqian/pawpulse/internal/domain/linkcheck"
	"github.com/yanqian/pawpulse/internal/domain/petevents"
	"github.com/yanqian/pawpulse/internal/domain/petservices"
	"github.com/yanqian/pawpulse/internal/infra/airquality/openaq"
	"github.com/yanqian/pawpulse/internal/infra/config"
	"github.com/yanqian/pawpulse/internal/infra/poi/overpass"
	"github.com/yanqian/pawpulse/internal/infra/search/customsearch"
	"github.com/yanqian/pawpulse/internal/infra/weather/openmeteo"
	httpiface "github.com/yanqian/pawpulse/internal/interface/http"
	"github.com/yanqian/pawpulse/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFetchClient,
		provideGeocodeCache,
		provideGeocoder,
		provideLinkCheckConfig,
		provideLinkValidator,
		provideWeatherClient,
		provideAirQualityClient,
		providePOIClient,
		providePetServicesConfig,
		provideSearchClient,
		providePetEventsConfig,
		linkcheck.NewService,
		environment.NewService,
		petservices.NewService,
		petevents.NewService,
		wire.Bind(new(environment.WeatherClient), new(*openmeteo.Client)),
		wire.Bind(new(environment.AirQualityClient), new(*openaq.Client)),
		wire.Bind(new(petservices.POIClient), new(*overpass.Client)),
		wire.Bind(new(petevents.SearchClient), new(*customsearch.Client)),
		wire.Bind(new(petevents.LinkChecker), new(*linkcheck.Validator)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
