package server

//go:generate swag init -g internal/server/swagger.go -o internal/server/docs

// @title URL Analyzer API
// @version 0.1
// @description Submits URLs to VirusTotal and reports community votes.
// @contact.name URL Analyzer Maintainers
// @contact.url https://github.com/raysh454/urlanalyzer
// @BasePath /
