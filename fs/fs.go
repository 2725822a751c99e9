// Package appfs embeds the static files the app ships with.
package appfs

import "embed"

//go:embed migrations/*.sql templates/email/*
var FS embed.FS
