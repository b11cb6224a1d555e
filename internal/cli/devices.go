package cli

import (
	"context"
	"io"

	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/ui"
)

// DevicesResult is the --json payload of the devices command.
type DevicesResult struct {
	Devices   []api.Device        `json:"devices,omitempty"`
	Hierarchy []api.HierarchyNode `json:"hierarchy,omitempty"`
}

// devicesCommand lists devices, or the hierarchy tree, to w.
func devicesCommand(w io.Writer, tree, jsonOut bool) error {
	s, err := openSession("devices")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.API.Timeout)
	defer cancel()

	result, err := loadDevices(ctx, s, tree, jsonOut)
	if err != nil {
		if jsonOut {
			_ = WriteJSONFromError(w, err)
		}
		return err
	}

	if jsonOut {
		return WriteJSONSuccess(w, result)
	}
	out := ui.RenderDeviceTable(result.Devices)
	if tree {
		out = ui.RenderHierarchyTree(result.Hierarchy)
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}

func loadDevices(ctx context.Context, s *session, tree, machine bool) (*DevicesResult, error) {
	token := s.auth.Token()
	p := newProgress("Loading inventory", machine)
	p.Start()

	result := &DevicesResult{}
	if tree {
		env, err := s.client.GetHierarchy(ctx, token)
		if err != nil {
			p.Fail()
			return nil, err
		}
		if env.Data != nil {
			result.Hierarchy = *env.Data
		}
	} else {
		env, err := s.client.ListDevices(ctx, token)
		if err != nil {
			p.Fail()
			return nil, err
		}
		if env.Data != nil {
			result.Devices = *env.Data
		}
	}
	p.Success()
	return result, nil
}
