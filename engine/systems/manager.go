package systems

import (
	"github.com/spaghettifunk/keyframer/engine/scene"
)

type SystemManagerConfig struct {
	Camera       CameraConfig
	Manipulation ManipulationConfig
	// JobWorkers defaults to a single worker so file jobs stay ordered.
	JobWorkers   int
	JobQueueSize int
}

// SystemManager owns the systems that sit between input and the scene graph.
type SystemManager struct {
	cameraSystem       *Camera
	manipulationSystem *ManipulationSystem
	jobSystem          *JobSystem
}

func NewSystemManager(graph *scene.Graph, config SystemManagerConfig) (*SystemManager, error) {
	if config.JobWorkers <= 0 {
		config.JobWorkers = 1
	}
	if config.JobQueueSize <= 0 {
		config.JobQueueSize = 16
	}
	js, err := NewJobSystem(config.JobWorkers, config.JobQueueSize)
	if err != nil {
		return nil, err
	}
	cs, err := NewCamera(config.Camera)
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	ms, err := NewManipulationSystem(graph, cs, config.Manipulation)
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		cameraSystem:       cs,
		manipulationSystem: ms,
		jobSystem:          js,
	}, nil
}

func (sm *SystemManager) Camera() *Camera {
	return sm.cameraSystem
}

func (sm *SystemManager) Manipulation() *ManipulationSystem {
	return sm.manipulationSystem
}

func (sm *SystemManager) Jobs() *JobSystem {
	return sm.jobSystem
}

func (sm *SystemManager) Shutdown() error {
	return sm.jobSystem.Shutdown()
}
