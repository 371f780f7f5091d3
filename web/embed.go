// Package web embeds the browser chat UI assets.
package web

import "embed"

//go:embed index.html styles.css app.js
var Assets embed.FS
