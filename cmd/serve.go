package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cashflow-sim/cashflow-sim/server"
)

var serveAddr string // Listen address

// serveCmd exposes the projection over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		if logrus.GetLevel() < logrus.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
		logrus.Infof("Listening on %s", serveAddr)
		if err := server.New().Run(serveAddr); err != nil {
			logrus.Fatalf("server stopped: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
