package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/amiskov/guide-client/pkg/fakeapi"
	"github.com/amiskov/guide-client/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("a", "127.0.0.1:8000", "Listen address.")
	ttl := flag.Duration("ttl", time.Hour, "Session lifetime announced on login.")
	level := flag.String("l", "info", "Log level.")
	flag.Parse()

	l := logger.Run(*level)
	defer l.Sync() //nolint:errcheck

	srv := &http.Server{
		Addr:              *addr,
		Handler:           fakeapi.New(fakeapi.WithSessionTTL(*ttl)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	l.Infof("Serving at http://%s/api", *addr)
	l.Fatal(srv.ListenAndServe())
}
