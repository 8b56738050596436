// Package restart drives a single instance through a stop then start cycle,
// blocking until each transition has completed.
package restart

import (
	"context"
	"fmt"
	"io"

	"code.justin.tv/safety/ec2-restart/cloud"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// State is the position of a run in the restart sequence
type State int

const (
	Idle State = iota
	Stopping
	Stopped
	Starting
	Running
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Phase names the step a failure happened in
type Phase string

const (
	PhaseStopping       Phase = "stopping"
	PhaseWaitingStopped Phase = "waiting-stopped"
	PhaseStarting       Phase = "starting"
	PhaseWaitingRunning Phase = "waiting-running"
)

// Request identifies the instance to restart and the scope it lives in
type Request struct {
	InstanceID string
	Profile    string
	Region     string
}

// Validate checks the request can be handed to the gateway
func (r Request) Validate() error {
	if r.InstanceID == "" {
		return errors.New("restart: instance id is required")
	}
	return nil
}

// Error is the failure outcome of a run, tagged with the phase that failed
type Error struct {
	Phase Phase
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("restart: %s: %v", e.Phase, e.Err)
}

// Cause returns the underlying failure
func (e *Error) Cause() error { return e.Err }

func (e *Error) Unwrap() error { return e.Err }

// transition moves the run from one state to the next by calling the gateway
type transition struct {
	from   State
	to     State
	phase  Phase
	notice string
	done   string
	call   func(ctx context.Context, instanceID string) error
}

// Orchestrator runs the restart sequence against a gateway. It keeps no state
// between runs beyond the state of the last one.
type Orchestrator struct {
	gateway cloud.Gateway
	out     io.Writer
	log     logrus.FieldLogger
	state   State
}

// New creates an orchestrator that reports progress lines to out
func New(gateway cloud.Gateway, out io.Writer, log logrus.FieldLogger) *Orchestrator {
	return &Orchestrator{gateway: gateway, out: out, log: log}
}

// State returns where the most recent run ended up
func (o *Orchestrator) State() State {
	return o.state
}

// transitions is keyed on the state each transition leaves
func (o *Orchestrator) transitions(instanceID string) map[State]transition {
	return map[State]transition{
		Idle: {
			from:   Idle,
			to:     Stopping,
			phase:  PhaseStopping,
			notice: "Stopping instance: " + instanceID,
			call:   o.gateway.Stop,
		},
		Stopping: {
			from:   Stopping,
			to:     Stopped,
			phase:  PhaseWaitingStopped,
			notice: "Waiting for instance to stop...",
			done:   fmt.Sprintf("Instance %s is now stopped.", instanceID),
			call:   o.gateway.WaitUntilStopped,
		},
		Stopped: {
			from:   Stopped,
			to:     Starting,
			phase:  PhaseStarting,
			notice: "Starting instance: " + instanceID,
			call:   o.gateway.Start,
		},
		Starting: {
			from:   Starting,
			to:     Running,
			phase:  PhaseWaitingRunning,
			notice: "Waiting for instance to start...",
			done:   fmt.Sprintf("Instance %s is now running.", instanceID),
			call:   o.gateway.WaitUntilRunning,
		},
	}
}

// Run stops the requested instance, waits for it to stop, starts it and waits
// for it to run. The first failure ends the run with an *Error; nothing is
// retried and a stopped instance is not started again after a failed start.
func (o *Orchestrator) Run(ctx context.Context, req Request) error {
	o.state = Idle
	if err := req.Validate(); err != nil {
		return err
	}

	log := o.log.WithFields(logrus.Fields{
		"instance": req.InstanceID,
		"profile":  req.Profile,
		"region":   req.Region,
	})

	fmt.Fprintf(o.out, "Restarting instance %s in profile %s...\n", req.InstanceID, req.Profile)
	transitions := o.transitions(req.InstanceID)
	for o.state != Running {
		t, ok := transitions[o.state]
		if !ok {
			return errors.Errorf("restart: no transition out of %s", o.state)
		}

		fmt.Fprintln(o.out, t.notice)
		log.WithField("phase", t.phase).Debug("entering phase")

		if err := t.call(ctx, req.InstanceID); err != nil {
			o.state = Failed
			log.WithField("phase", t.phase).WithError(err).Debug("phase failed")
			return &Error{Phase: t.phase, Err: err}
		}

		o.state = t.to
		if t.done != "" {
			fmt.Fprintln(o.out, t.done)
		}
	}
	return nil
}
