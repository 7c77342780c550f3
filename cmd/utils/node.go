package utils

import (
	"github.com/urfave/cli/v2"
	"github.com/xyths/bpx/node"
)

// GetNode loads the config named by the config flag and returns an initialized node.
func GetNode(ctx *cli.Context) (*node.Node, error) {
	c, err := node.LoadConfig(ctx.String(ConfigFlag.Name))
	if err != nil {
		return nil, err
	}
	n := node.New(c)
	if err := n.Init(); err != nil {
		return nil, err
	}
	return n, nil
}
