// Command seed loads the demo accounts and catalog into MongoDB. Existing
// accounts are kept and sweets are only added to an empty catalog, so the
// command can be run repeatedly.
package main

import (
	"context"
	"errors"
	"net/url"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/sweetmart/sweetshop/internal/core/domain"
	"github.com/sweetmart/sweetshop/internal/core/ports"
	"github.com/sweetmart/sweetshop/internal/core/service"
	"github.com/sweetmart/sweetshop/internal/infrastructure/db/mongo"
	"github.com/sweetmart/sweetshop/internal/pkg/config"
	"github.com/sweetmart/sweetshop/pkg/logger"
)

type seedConfig struct {
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Mongo    config.MongoConfig
}

type account struct {
	input ports.RegisterInput
	role  domain.Role
}

var accounts = []account{
	{ports.RegisterInput{Name: "Admin User", Email: "admin@sweetmart.com", Password: "admin123"}, domain.RoleAdmin},
	{ports.RegisterInput{Name: "Test User", Email: "user@sweetmart.com", Password: "user123"}, domain.RoleUser},
}

var catalog = []ports.CreateSweetInput{
	{Name: "Kaju Katli", Category: domain.CategoryKajuKatli, Price: 450, Quantity: 50,
		Description: "Delicious cashew-based diamond-shaped sweet with silver leaf decoration, a favorite during Diwali"},
	{Name: "Gulab Jamun", Category: domain.CategoryGulabJamun, Price: 300, Quantity: 40,
		Description: "Soft, spongy milk-based sweet balls soaked in rose-flavored sugar syrup, served warm or cold"},
	{Name: "Rasgulla", Category: domain.CategoryRasgulla, Price: 250, Quantity: 60,
		Description: "Spongy cottage cheese balls in light sugar syrup, originating from Odisha, India"},
	{Name: "Jalebi", Category: domain.CategoryJalebi, Price: 200, Quantity: 35,
		Description: "Crispy, syrupy spiral-shaped sweet made from deep-fried maida flour, popular across India"},
	{Name: "Barfi", Category: domain.CategoryBarfi, Price: 350, Quantity: 45,
		Description: "Rich, dense milk-based sweet with various flavors like pistachio, almond, and coconut"},
	{Name: "Laddoo", Category: domain.CategoryLaddoo, Price: 280, Quantity: 55,
		Description: "Round, sweet balls made from flour, sugar, and ghee, available in besan, rava, and coconut varieties"},
	{Name: "Rasmalai", Category: domain.CategoryRasgulla, Price: 320, Quantity: 30,
		Description: "Soft flattened cheese balls soaked in sweetened, thickened milk flavored with cardamom and saffron"},
	{Name: "Halwa", Category: domain.CategoryHalwa, Price: 280, Quantity: 40,
		Description: "Sweet dense confection made from semolina, carrots, or other ingredients, cooked in ghee"},
	{Name: "Peda", Category: domain.CategoryMithai, Price: 380, Quantity: 50,
		Description: "Soft, milk-based sweet from Mathura, made with khoya, sugar, and flavored with cardamom"},
	{Name: "Soan Papdi", Category: domain.CategoryMithai, Price: 220, Quantity: 65,
		Description: "Flaky, layered sweet made from gram flour, sugar, ghee, and cardamom"},
	{Name: "Besan Laddoo", Category: domain.CategoryLaddoo, Price: 300, Quantity: 48,
		Description: "Traditional sweet balls made from roasted gram flour, ghee, sugar, and nuts"},
	{Name: "Kheer", Category: domain.CategoryHalwa, Price: 180, Quantity: 25,
		Description: "Creamy rice pudding made with milk, rice, sugar, and flavored with cardamom and saffron"},
	{Name: "Modak", Category: domain.CategoryMithai, Price: 250, Quantity: 42,
		Description: "Sweet dumplings made from rice flour, filled with jaggery and coconut"},
	{Name: "Puran Poli", Category: domain.CategoryMithai, Price: 200, Quantity: 38,
		Description: "Sweet flatbread stuffed with sweetened chana dal, popular in Maharashtra and Gujarat"},
	{Name: "Gajar Ka Halwa", Category: domain.CategoryHalwa, Price: 290, Quantity: 35,
		Description: "Carrot pudding made with grated carrots, milk, sugar, and ghee, garnished with nuts"},
}

func imageURL(name string) string {
	return "https://via.placeholder.com/400x300/FFD700/8B4513?text=" + url.QueryEscape(name)
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		logger.Init(logger.Options{Output: os.Stderr})
		boot := logger.Get()
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "sweetshop-seed"})
	log := logger.Get()

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repos := mongo.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// The token service is unused here: CreateUser never issues a token.
	auth := service.NewAuthService(repos.Users, service.NewTokenService("seed", 0))
	for _, a := range accounts {
		u, err := auth.CreateUser(ctx, a.input, a.role)
		switch {
		case errors.Is(err, domain.ErrUserExists):
			log.Info().Str("email", a.input.Email).Msg("account already present")
		case err != nil:
			log.Fatal().Err(err).Str("email", a.input.Email).Msg("failed to create account")
		default:
			log.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("account created")
		}
	}

	existing, err := repos.Sweets.List(ctx, ports.SweetFilter{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read catalog")
	}
	if len(existing) > 0 {
		log.Info().Int("sweets", len(existing)).Msg("catalog not empty, skipping sweets")
		return
	}

	sweets := service.NewSweetService(repos.Sweets, logger.Component("catalog"))
	for _, in := range catalog {
		in.Image = imageURL(in.Name)
		if _, err := sweets.Create(ctx, in); err != nil {
			log.Fatal().Err(err).Str("name", in.Name).Msg("failed to create sweet")
		}
	}
	log.Info().Int("sweets", len(catalog)).Msg("catalog seeded")
}
