package server

import (
	"github.com/gorilla/mux"
)

// Router binds the daylight handler to its routes.
type Router struct {
	handler *DaylightHandler
	router  *mux.Router
}

// NewRouter creates a router with the app's routes.
func NewRouter(handler *DaylightHandler, router *mux.Router) *Router {
	return &Router{handler: handler, router: router}
}

// RegisterRoutes adds every route to the mux router.
func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/ping", r.handler.Ping).Methods("GET")
	r.router.HandleFunc("/v1/places", r.handler.ListPlaces).Methods("GET")
	r.router.HandleFunc("/v1/daylight/{place}/{year}", r.handler.Daylight).Methods("GET")
	r.router.HandleFunc("/v1/daylight/{place}/{year}/heatmap", r.handler.Heatmap).Methods("GET")
}
