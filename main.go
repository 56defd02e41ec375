package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"

	"eshopClient/handlers"
	"eshopClient/localstore"
	"eshopClient/repository"
	"eshopClient/services"
	"eshopClient/stubapi"

	flag "github.com/spf13/pflag"
)

func main() {
	apiURL := flag.String("api-url", envDefault("ESHOP_API_URL", "http://localhost:8080/api"), "базовый URL backend-а")
	statePath := flag.String("state", envDefault("ESHOP_STATE_PATH", "eshop-state.db"), "файл локального состояния")
	demo := flag.Bool("demo", false, "запустить со встроенным backend-ом в памяти")
	flag.Parse()

	if *demo {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("main: %v", err)
		}
		go func() {
			if err := http.Serve(listener, stubapi.New().Handler()); err != nil {
				log.Printf("main: demo backend: %v", err)
			}
		}()
		*apiURL = "http://" + listener.Addr().String() + "/api"
		*statePath = ":memory:"
		log.Printf("демо-режим: встроенный backend на %s", *apiURL)
	}

	store, err := localstore.Open(*statePath)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	defer store.Close()

	client, err := repository.NewClient(*apiURL, store)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	authRepo, err := repository.NewAuthRepository(client)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	productRepo, err := repository.NewProductRepository(client)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	cartRepo, err := repository.NewCartRepository(client)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	orderRepo, err := repository.NewOrderRepository(client)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	adminRepo, err := repository.NewAdminRepository(client)
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	confirm := &lateConfirmer{}
	sessions := services.NewSessionService(authRepo, store)
	products := services.NewProductService(productRepo)
	cart := services.NewCartService(cartRepo, orderRepo, confirm)
	orders := services.NewOrderService(orderRepo)
	admin := services.NewAdminService(adminRepo, confirm)

	ctx := context.Background()
	sessions.Initialize(ctx)
	if sessions.Session().User != nil {
		if err := cart.FetchCart(ctx); err != nil {
			log.Printf("main: %v", err)
		}
	}

	handler, err := handlers.NewHandler(handlers.HandlerParams{
		Sessions: &sessions,
		Products: &products,
		Cart:     &cart,
		Orders:   &orders,
		Admin:    &admin,
		In:       os.Stdin,
		Out:      os.Stdout,
	})
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	confirm.target = &handler
	if err := handler.Run(ctx); err != nil {
		log.Fatalf("main: %v", err)
	}
}

// lateConfirmer breaks the construction cycle: the services need a
// Confirmer before the handler that does the actual prompting exists.
type lateConfirmer struct {
	target services.Confirmer
}

func (l *lateConfirmer) Confirm(prompt string) bool {
	if l.target == nil {
		return false
	}
	return l.target.Confirm(prompt)
}

func envDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
