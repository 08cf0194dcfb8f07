package main

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	httpadapter "svw.info/gridgen/internal/adapters/http"
	"svw.info/gridgen/internal/infrastructure/storage"
	"svw.info/gridgen/internal/solver"
	"svw.info/gridgen/internal/usecase"
	"svw.info/gridgen/internal/validator"
)

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger logs method, path, status, bytes and duration per request.
// Websocket upgrades bypass the wrapper: the hijacked connection needs the
// original ResponseWriter.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": sw.status,
			"bytes":  sw.bytes,
			"dur":    time.Since(start).Round(time.Millisecond),
		}).Info("http")
	})
}

func newServeCommand() *cobra.Command {
	var (
		addr    string
		dataDir string
		retries int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine as a JSON API with a generation stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := usecase.NewService(solver.NewBacktracking(), validator.New(), storage.NewFS(dataDir))
			if retries > 0 {
				uc.MaxRetries = retries
			}
			mux := http.NewServeMux()
			httpadapter.New(uc).Register(mux)

			srv := &http.Server{
				Addr:              addr,
				Handler:           requestLogger(mux),
				ReadHeaderTimeout: 5 * time.Second,
			}
			log.WithFields(logrus.Fields{"addr": addr, "data": dataDir}).Info("listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dataDir, "data", "./generated_instances", "instance directory")
	cmd.Flags().IntVar(&retries, "retries", 0, "max solver re-seeds per generation (0 = default)")
	return cmd
}
