package pantryrpc

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"pantry"
)

func request(t *testing.T, function string, arg any) *Packet {
	t.Helper()
	body := map[string][]byte{"function": []byte(function)}
	if arg != nil {
		b, err := msgpack.Marshal(arg)
		require.NoError(t, err)
		body["arg"] = b
	}
	return &Packet{UUID: uuid.New(), Type: TypeReq, Body: body}
}

func decodeResult(t *testing.T, resp *Packet, v any) {
	t.Helper()
	require.Equal(t, CodeOK, resp.Code, resp.Msg)
	require.NoError(t, msgpack.Unmarshal(resp.Body["result"], v))
}

func ptr(v float64) *float64 {
	return &v
}

func TestHandleConvert(t *testing.T) {
	h := NewHandler(nil, nil)
	req := request(t, FuncConvert, ConvertRequest{Quantity: 16, From: "oz", To: "lb"})
	resp := h.Handle(req)

	assert.Equal(t, req.UUID, resp.UUID)
	assert.Equal(t, TypeResp, resp.Type)
	var out ConvertResponse
	decodeResult(t, resp, &out)
	assert.Equal(t, 1.0, out.Quantity)
}

func TestHandleConvertStrict(t *testing.T) {
	h := NewHandler(pantry.NewConverter(pantry.WithPolicy(pantry.PolicyStrict)), nil)
	resp := h.Handle(request(t, FuncConvert, ConvertRequest{Quantity: 1, From: "kg", To: "ml"}))

	assert.Equal(t, CodeIncompatible, resp.Code)
	assert.Contains(t, resp.Msg, "incompatible units")
}

func TestHandleMatch(t *testing.T) {
	h := NewHandler(nil, nil)
	resp := h.Handle(request(t, FuncMatch, MatchRequest{
		Pantry:     []Quantity{{Amount: 500, Unit: "g"}, {Amount: 1, Unit: "kg"}},
		Ingredient: Ingredient{Name: "flour", Amount: ptr(1.4), Unit: "kg"},
	}))
	var out MatchResult
	decodeResult(t, resp, &out)
	assert.True(t, out.Present)
	assert.True(t, out.Sufficient)
	assert.InDelta(t, 1.5, out.ConvertedTotal, 1e-12)
	assert.Equal(t, "sufficient", out.Status)
	assert.Nil(t, out.Incompatible)
}

func TestHandleRecipe(t *testing.T) {
	h := NewHandler(pantry.NewConverter(pantry.WithPolicy(pantry.PolicyStrict)), nil)
	resp := h.Handle(request(t, FuncRecipe, RecipeRequest{
		Pantry: []Item{
			{Name: "Milk", Quantity: 1, Unit: "cup"},
			{Name: "butter", Quantity: 2, Unit: "pcs"},
		},
		Ingredients: []Ingredient{
			{Name: "milk", Amount: ptr(500), Unit: "ml"},
			{Name: "butter", Amount: ptr(100), Unit: "g"},
			{Name: "salt"},
		},
	}))
	var out RecipeResponse
	decodeResult(t, resp, &out)

	assert.False(t, out.CanMake)
	require.Len(t, out.Results, 3)
	assert.Equal(t, "insufficient", out.Results[0].Status)
	assert.Equal(t, "unknown", out.Results[1].Status)
	assert.Equal(t, &UnitPair{From: "pcs", To: "g"}, out.Results[1].Incompatible)
	assert.Equal(t, "missing", out.Results[2].Status)
	assert.Equal(t, []string{"500 ml milk", "100 g butter", "salt"}, out.Missing)

	got := ToMatchResult(out.Results[1])
	assert.ErrorIs(t, got.Err, pantry.ErrIncompatibleUnits)
	assert.Equal(t, pantry.StatusUnknown, got.Status())
}

func TestHandleErrors(t *testing.T) {
	h := NewHandler(nil, nil)
	noFunc := &Packet{UUID: uuid.New(), Type: TypeReq}

	tests := []struct {
		name string
		pkt  *Packet
		code int32
		err  error
	}{
		{"no function", noFunc, CodeNoFunc, ErrReqHasNoFunc},
		{"unknown function", request(t, "bake", ConvertRequest{}), CodeNoSuchFunc, ErrNoSuchFunc},
		{"no argument", request(t, FuncConvert, nil), CodeNoArg, ErrReqHasNoArg},
		{"bad body", &Packet{UUID: uuid.New(), Type: TypeReq, Body: map[string][]byte{
			"function": []byte(FuncMatch),
			"arg":      []byte("not msgpack"),
		}}, CodeUnmarshal, ErrBadBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.Handle(tt.pkt)
			assert.Equal(t, tt.pkt.UUID, resp.UUID)
			assert.Equal(t, tt.code, resp.Code)
			assert.Nil(t, resp.Body)
			assert.ErrorIs(t, &RemoteError{Code: resp.Code, Msg: resp.Msg}, tt.err)
		})
	}
}

func TestRemoteErrorIs(t *testing.T) {
	err := error(&RemoteError{Code: CodeIncompatible, Msg: "x"})
	assert.True(t, errors.Is(err, pantry.ErrIncompatibleUnits))
	assert.False(t, errors.Is(err, ErrNoSuchFunc))
	assert.False(t, errors.Is(&RemoteError{Code: CodeExec}, ErrBadBody))
	assert.Equal(t, "rpc error -207: x", err.Error())
}

func TestStrsContains(t *testing.T) {
	assert.True(t, StrsContains(ServerFuncs, FuncRecipe))
	assert.False(t, StrsContains(ServerFuncs, ""))
}
