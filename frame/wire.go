package frame

// Request asks the frame stream for one frame of a simulation.
// A request with Shutdown set is the terminal message of a stream.
type Request struct {
	SimulationID string `json:"simulationId"`
	Number       int    `json:"frameNr"`
	Shutdown     bool   `json:"shutdown,omitempty"`
}

// Response answers a Request.
type Response struct {
	Request Request `json:"request"`
	State   State   `json:"state"`
}

// Frame extracts the frame carried by the response.
func (r Response) Frame() Frame {
	return Frame{Number: r.Request.Number, State: r.State}
}
