package inline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/simplay-cli/simplay/frame"
	"github.com/simplay-cli/simplay/util"
)

// Line is one frame written in JSON mode.
type Line struct {
	Simulation string `json:"simulation"`
	Total      int    `json:"total"`
	frame.Frame
}

func writeJson(out io.Writer, simulationID string, total int, f frame.Frame) error {
	data, err := json.Marshal(&Line{Simulation: simulationID, Total: total, Frame: f})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}

func writeText(out io.Writer, name string, total int, f frame.Frame) error {
	sum := f.Summary()
	_, err := fmt.Fprintf(out, "%s  %d/%d  %s  %s  %s\n",
		name,
		sum.Number+1,
		total,
		util.Quantify(sum.Nodes, "node", "nodes"),
		util.Quantify(sum.Edges, "edge", "edges"),
		util.Quantify(sum.Globals, "global", "globals"),
	)
	return err
}
