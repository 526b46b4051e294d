package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"yathra/auth"
	"yathra/config"
	dbt "yathra/db/db"
	"yathra/db/mem"
	"yathra/db/pg"
	"yathra/mq/gcppubsub"
	"yathra/mq/goch"
	"yathra/mq/mq"
	"yathra/mq/rabbit"
	"yathra/web"
)

func serverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `This command starts the record keeping API server.`,
		Run: func(cmd *cobra.Command, args []string) {
			isDev := cmd.Flags().Lookup("dev").Value.String() == "true"
			port := cmd.Flags().Lookup("port").Value.String()
			mqMode := cmd.Flags().Lookup("mq").Value.String()

			var store dbt.Store
			if isDev {
				log.Println("Running with the in-memory store, records are lost on exit")
				store = mem.NewInMemoryStore()
			} else {
				gormDB, err := pg.InitPostgresGORM(pg.CreateDSN())
				if err != nil {
					log.Fatalf("Failed to connect to postgres: %v", err)
				}
				store = pg.NewGORMStore(gormDB)
			}

			queues := buildEventQueues(mqMode)
			google := auth.NewGoogleVerifier(config.GoogleClientID())

			server := web.NewServer(store, queues, google)
			if err := server.Serve(":" + port); err != nil {
				log.Fatalf("Server stopped: %v", err)
			}
		},
	}

	cmd.Flags().Bool("dev", true, "Run in development mode")
	cmd.Flags().String("port", "8080", "Port to run the web server on")
	cmd.Flags().String("mq", "go_chan", "Message queue mode (go_chan, rabbitmq, gcp_pub_sub)")

	return cmd
}

func buildEventQueues(mode string) mq.RecordEventQueueWrapper {
	switch mode {
	case "rabbitmq":
		conn := rabbit.NewRabbitConnection(rabbit.CreateAmqpURL())
		wrapper, err := rabbit.NewRabbitRecordEventQueueWrapper(conn)
		if err != nil {
			log.Fatalf("Failed to set up rabbitmq queues: %v", err)
		}
		return wrapper
	case "gcp_pub_sub":
		wrapper, err := gcppubsub.NewGCPRecordEventQueueWrapper(context.Background(), gcppubsub.GetGCPProjectID())
		if err != nil {
			log.Fatalf("Failed to set up pub/sub queues: %v", err)
		}
		return wrapper
	default:
		return goch.NewGoChanRecordEventQueueWrapper()
	}
}
