package server

import (
	"github.com/vanshika/campusnav/internal/campus"
	"github.com/vanshika/campusnav/internal/directory"
)

type waypointDTO struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Name string  `json:"name"`
}

type routeResponse struct {
	Path     []waypointDTO `json:"path"`
	Distance *float64      `json:"distance,omitempty"`
}

type nearestResponse struct {
	Waypoints []waypointDTO `json:"waypoints"`
}

type classesResponse struct {
	Matricula string                `json:"matrícula"`
	Name      string                `json:"nome"`
	Classes   []directory.ClassWire `json:"aulas_da_semana"`
}

type loginRequest struct {
	Matricula string `json:"matricula"`
}

type loginResponse struct {
	Matricula string `json:"matricula"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// newRouteResponse leaves distance out when the destination is unreachable.
func newRouteResponse(route campus.Route) routeResponse {
	resp := routeResponse{Path: toWaypointDTOs(route.Steps)}
	if route.Found() {
		d := route.Distance
		resp.Distance = &d
	}
	return resp
}

func toWaypointDTOs(steps []campus.Step) []waypointDTO {
	out := make([]waypointDTO, 0, len(steps))
	for _, s := range steps {
		out = append(out, waypointDTO{ID: s.ID, X: s.X, Y: s.Y, Name: s.Name})
	}
	return out
}
