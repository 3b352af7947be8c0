package network

import (
	"errors"
	"fmt"
	"log/slog"

	"jello/internal/pet"
)

// ErrUnknownMessage is returned for an envelope type Dispatch does not handle.
var ErrUnknownMessage = errors.New("unknown message type")

// Dispatch applies one inbound envelope to sim. It returns the encoded
// reply for the sender, or nil when the state broadcast is the only answer.
func Dispatch(sim *pet.Simulation, env Envelope) ([]byte, error) {
	switch env.T {
	case MsgAction:
		req, err := DecodePayload[ActionRequest](env)
		if err != nil {
			return nil, err
		}
		return Encode(MsgResult, sim.PerformAction(req.Kind))

	case MsgClear:
		req, err := DecodePayload[ClearRequest](env)
		if err != nil {
			return nil, err
		}
		if req.Kind != pet.EntityMess && req.Kind != pet.EntityPest {
			return nil, fmt.Errorf("clear: unknown entity kind %q", req.Kind)
		}
		started := sim.BeginClear(req.Kind, req.ID)
		return Encode(MsgCleared, ClearReply{ID: req.ID, Started: started})

	case MsgReward:
		req, err := DecodePayload[RewardRequest](env)
		if err != nil {
			return nil, err
		}
		return Encode(MsgLevel, LevelReply{Level: sim.AddRewards(req.XP, req.Stars)})

	case MsgReset:
		sim.ResetGame()
		return nil, nil

	case MsgGraduate:
		return nil, sim.Graduate()

	case MsgEvolve:
		return nil, sim.Evolve()

	case MsgLand, MsgHouse:
		req, err := DecodePayload[PlaceRequest](env)
		if err != nil {
			return nil, err
		}
		if env.T == MsgLand {
			sim.SetLand(req.ID)
		} else {
			sim.SetHouse(req.ID)
		}
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.T)
}

// handle decodes a raw message, dispatches it and turns failures into an
// error envelope for the sender.
func handle(sim *pet.Simulation, msg []byte) []byte {
	env, err := DecodeEnvelope(msg)
	if err == nil {
		var reply []byte
		if reply, err = Dispatch(sim, env); err == nil {
			return reply
		}
	}
	slog.Debug("message rejected", "err", err)
	b, encErr := Encode(MsgError, ErrorReply{Message: err.Error()})
	if encErr != nil {
		return nil
	}
	return b
}
