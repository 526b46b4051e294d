package web

import (
	"github.com/gin-gonic/gin"

	"yathra/auth"
	dbt "yathra/db/db"
	"yathra/mq/mq"
)

// Server wires the record store, event queues and the Google verifier into
// the HTTP surface.
type Server struct {
	store  dbt.Store
	events eventPublisher
	google auth.GoogleVerifier
}

func NewServer(store dbt.Store, queues mq.RecordEventQueueWrapper, google auth.GoogleVerifier) *Server {
	return &Server{
		store:  store,
		events: eventPublisher{queues: queues},
		google: google,
	}
}

// Router builds the gin engine with all routes registered. Exposed separately
// from Serve so tests can drive it with httptest.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	setupMiddlewares(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.POST("/google", s.googleSignIn)
	authGroup.POST("/reset-password", s.resetPassword)
	authGroup.GET("/me", RequireAuth(), s.me)
	authGroup.DELETE("/delete", RequireAuth(), s.deleteAccount)

	records := api.Group("", RequireAuth())

	records.GET("/vehicles", s.listVehicles)
	records.POST("/vehicles", s.createVehicle)
	records.PUT("/vehicles/:id", s.updateVehicle)
	records.DELETE("/vehicles/:id", s.deleteVehicle)

	records.GET("/drivers", s.listDrivers)
	records.POST("/drivers", s.createDriver)
	records.PUT("/drivers/:id", s.updateDriver)
	records.DELETE("/drivers/:id", s.deleteDriver)

	records.GET("/contracts", s.listContracts)
	records.POST("/contracts", s.createContract)
	records.PUT("/contracts/:id", s.updateContract)
	records.DELETE("/contracts/:id", s.deleteContract)

	records.GET("/trips", s.listTrips)
	records.POST("/trips", s.createTrip)
	records.PUT("/trips/:id", s.updateTrip)
	records.DELETE("/trips/:id", s.deleteTrip)
	records.GET("/trips/contract/:contractId", s.contractForTrip)

	records.GET("/reports/contract-billing/:contractId", s.contractBillingReport)

	return r
}

// Serve runs the server on the given address ("" for gin's default).
func (s *Server) Serve(addr ...string) error {
	return s.Router().Run(addr...)
}
