// Package network serves a simulation to browser clients over websockets.
// Every message is a JSON envelope {"t": type, "p": payload}.
package network

import (
	"encoding/json"
	"fmt"

	"jello/internal/pet"
)

// Outbound message types.
const (
	MsgState   = "state"
	MsgResult  = "result"
	MsgCleared = "cleared"
	MsgLevel   = "level"
	MsgError   = "error"
)

// Inbound message types.
const (
	MsgAction   = "action"
	MsgClear    = "clear"
	MsgReward   = "reward"
	MsgReset    = "reset"
	MsgGraduate = "graduate"
	MsgEvolve   = "evolve"
	MsgLand     = "land"
	MsgHouse    = "house"
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"` // raw payload bytes
}

type ActionRequest struct {
	Kind pet.ActionKind `json:"kind"`
}

type ClearRequest struct {
	Kind pet.EntityKind `json:"kind"`
	ID   string         `json:"id"`
}

type RewardRequest struct {
	XP    int `json:"xp"`
	Stars int `json:"stars"`
}

// PlaceRequest names a land or a house.
type PlaceRequest struct {
	ID string `json:"id"`
}

type ClearReply struct {
	ID      string `json:"id"`
	Started bool   `json:"started"`
}

type LevelReply struct {
	Level int `json:"level"`
}

type ErrorReply struct {
	Message string `json:"message"`
}

// Encode wraps payload in an envelope of type t. A nil payload leaves p out.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("encode: empty envelope type")
	}
	if payload == nil {
		return json.Marshal(Envelope{T: t})
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode: empty message")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, fmt.Errorf("decode: missing envelope type")
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}
