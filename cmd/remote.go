package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/simplay-cli/simplay/auth"
	"github.com/simplay-cli/simplay/channel"
	"github.com/simplay-cli/simplay/key"
	"github.com/simplay-cli/simplay/log"
	"github.com/simplay-cli/simplay/simulation"
	"github.com/spf13/viper"
)

func simulationClient() *simulation.Client {
	return simulation.NewClient(viper.GetString(key.APIURL), auth.Token())
}

func framesURL(id string) string {
	base := strings.TrimSuffix(viper.GetString(key.ChannelURL), "/")
	return base + "/simulations/" + url.PathEscape(id) + "/frames"
}

// openSimulation fetches the metadata of a playable simulation and dials its
// frame stream.
func openSimulation(ctx context.Context, id string) (simulation.Simulation, *channel.Channel, error) {
	sim, err := simulationClient().Get(ctx, id)
	if err != nil {
		return simulation.Simulation{}, nil, err
	}

	if !sim.Status.Playable() {
		if sim.StatusInfo != "" {
			return sim, nil, fmt.Errorf("simulation %s is %s: %s", sim.Name, sim.Status, sim.StatusInfo)
		}
		return sim, nil, fmt.Errorf("simulation %s is %s", sim.Name, sim.Status)
	}

	if sim.TotalFrames() == 0 {
		return sim, nil, fmt.Errorf("simulation %s has no frames yet", sim.Name)
	}

	log.Infof("Opening frame stream of %s (%d frames)", sim.ID, sim.TotalFrames())
	ch, err := channel.Dial(ctx, framesURL(sim.ID), auth.Token())
	if err != nil {
		return sim, nil, err
	}

	return sim, ch, nil
}
