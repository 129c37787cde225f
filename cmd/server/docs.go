package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           TraderLens API
// @version         0.1.0
// @description     Polymarket trader analytics: position and PnL reconstruction, behavioral stats, weather lookups for temperature markets.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
