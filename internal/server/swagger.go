package server

//go:generate swag init -g internal/server/swagger.go -o docs --parseDependency --parseInternal

// @title Kasumi API
// @version 0.1
// @description HTML fetching service. Requests are served with a direct GET carrying browser-like headers; pages that match a blocked-page selector are retried once through a pooled headless Chrome render.
// @contact.name Kasumi Maintainers
// @contact.url https://github.com/raysh454/kasumi
// @BasePath /
