package deploy

import (
	"strings"
	"time"

	"smdeploy/internal/parampath"
	"smdeploy/pkg/types"
)

const timestampLayout = "2006-01-02-15-04-05"

// uniqueName appends a UTC timestamp so every deployed model/config gets a
// fresh name and the previous one stays addressable.
func uniqueName(base string, now time.Time) string {
	return base + "-" + now.UTC().Format(timestampLayout)
}

// latestModelParam is the parameter tracking the most recently deployed
// model for a logical model name.
func latestModelParam(modelName string) string { return "models-" + modelName }

// variantResourceID is the autoscaling resource id for an endpoint variant.
func variantResourceID(endpointName, variantName string) string {
	return "endpoint/" + endpointName + "/variant/" + variantName
}

// normalizeEndpointType lowercases the event's endpoint type, defaulting to
// real-time when unset, and validates it.
func normalizeEndpointType(raw string) (string, error) {
	t := strings.ToLower(raw)
	if t == "" {
		t = parampath.TypeRealTime
	}
	if t != parampath.TypeAsync && t != parampath.TypeRealTime {
		return "", parampath.ErrInvalidEndpointType(raw)
	}
	return t, nil
}

// containerDescriptor builds the parameter-path descriptor for one container
// of a deployment event. Only real-time endpoints with several containers
// address a specific container.
func containerDescriptor(endpointType string, ev types.DeploymentEvent, c types.Container) parampath.Descriptor {
	d := parampath.Descriptor{
		Group:        c.Dependency,
		EndpointType: endpointType,
		EndpointName: ev.EndpointName,
	}
	if endpointType == parampath.TypeRealTime && len(ev.Containers) > 1 {
		d.MultiContainer = true
		d.ContainerName = c.Name
	}
	return d
}

// graphDescriptor builds the parameter-path descriptor for one desired
// graph entry. The dependency group comes from the graph's map key.
func graphDescriptor(e types.GraphEndpoint) parampath.Descriptor {
	d := parampath.Descriptor{
		EndpointType: e.EndpointType,
		EndpointName: e.EndpointName,
	}
	if e.EndpointType == parampath.TypeRealTime && e.MultiContainer {
		d.MultiContainer = true
		d.ContainerName = e.ContainerName
	}
	return d
}
