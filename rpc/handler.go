package pantryrpc

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"pantry"
)

const (
	FuncConvert = "convert"
	FuncMatch   = "match"
	FuncRecipe  = "recipe"
)

var ServerFuncs = []string{
	FuncConvert,
	FuncMatch,
	FuncRecipe,
}

// Response codes.
const (
	CodeOK           int32 = 0
	CodeNoFunc       int32 = -201
	CodeNoSuchFunc   int32 = -202
	CodeNoArg        int32 = -204
	CodeUnmarshal    int32 = -205
	CodeExec         int32 = -206
	CodeIncompatible int32 = -207
)

var (
	ErrReqHasNoFunc = errors.New("request has no function")
	ErrNoSuchFunc   = errors.New("no such function")
	ErrReqHasNoArg  = errors.New("request has no argument")
	ErrBadBody      = errors.New("malformed body")
)

// RemoteError is a non-OK response turned back into an error on the client.
type RemoteError struct {
	Code int32
	Msg  string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Msg)
}

func (e *RemoteError) Is(target error) bool {
	switch e.Code {
	case CodeNoFunc:
		return target == ErrReqHasNoFunc
	case CodeNoSuchFunc:
		return target == ErrNoSuchFunc
	case CodeNoArg:
		return target == ErrReqHasNoArg
	case CodeUnmarshal:
		return target == ErrBadBody
	case CodeIncompatible:
		return target == pantry.ErrIncompatibleUnits
	}
	return false
}

func StrsContains(strs []string, searchVal string) bool {
	for i := range strs {
		if strs[i] == searchVal {
			return true
		}
	}
	return false
}

// Handler dispatches request packets to the converter and matcher.
type Handler struct {
	conv    *pantry.Converter
	matcher *pantry.Matcher
	logger  *zap.Logger
}

func NewHandler(conv *pantry.Converter, logger *zap.Logger) *Handler {
	if conv == nil {
		conv = pantry.NewConverter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		conv:    conv,
		matcher: pantry.NewMatcher(conv),
		logger:  logger,
	}
}

// Handle never fails; errors are reported in the response code.
func (h *Handler) Handle(pkt *Packet) *Packet {
	// layer 0, check func
	funcBytes, ok := pkt.Body["function"]
	if !ok {
		return CreateRespPkt(pkt.UUID, CodeNoFunc, nil, ErrReqHasNoFunc.Error())
	}
	funcStr := string(funcBytes)
	if !StrsContains(ServerFuncs, funcStr) {
		return CreateRespPkt(pkt.UUID, CodeNoSuchFunc, nil, fmt.Sprintf("%s: %q", ErrNoSuchFunc, funcStr))
	}

	// layer 1, check arg
	argBytes := pkt.Body["arg"]
	if len(argBytes) == 0 {
		return CreateRespPkt(pkt.UUID, CodeNoArg, nil, ErrReqHasNoArg.Error())
	}

	h.logger.Debug("handling request",
		zap.Stringer("uuid", pkt.UUID),
		zap.String("function", funcStr))

	// layer last
	var result any
	switch funcStr {
	case FuncConvert:
		var req ConvertRequest
		if err := msgpack.Unmarshal(argBytes, &req); err != nil {
			return CreateRespPktErrUnmarshal(pkt.UUID, err)
		}
		q, err := h.conv.Convert(req.Quantity, pantry.Unit(req.From), pantry.Unit(req.To))
		if err != nil {
			return CreateRespPktErrExecFunc(pkt.UUID, err)
		}
		result = ConvertResponse{Quantity: q}
	case FuncMatch:
		var req MatchRequest
		if err := msgpack.Unmarshal(argBytes, &req); err != nil {
			return CreateRespPktErrUnmarshal(pkt.UUID, err)
		}
		entries := make([]pantry.Quantity, 0, len(req.Pantry))
		for _, q := range req.Pantry {
			entries = append(entries, ToQuantity(q))
		}
		result = NewMatchResult(h.matcher.MatchIngredient(entries, ToIngredient(req.Ingredient)))
	case FuncRecipe:
		var req RecipeRequest
		if err := msgpack.Unmarshal(argBytes, &req); err != nil {
			return CreateRespPktErrUnmarshal(pkt.UUID, err)
		}
		items := make([]pantry.Item, 0, len(req.Pantry))
		for _, it := range req.Pantry {
			items = append(items, ToItem(it))
		}
		ings := make([]pantry.Ingredient, 0, len(req.Ingredients))
		for _, ing := range req.Ingredients {
			ings = append(ings, ToIngredient(ing))
		}
		rm := h.matcher.MatchRecipe(pantry.NewPantry(items), ings)
		resp := RecipeResponse{CanMake: rm.CanMake()}
		for _, r := range rm.Results {
			resp.Results = append(resp.Results, NewMatchResult(r))
		}
		for _, ing := range rm.Missing() {
			resp.Missing = append(resp.Missing, pantry.ShoppingLabel(ing))
		}
		result = resp
	}

	resultBytes, err := msgpack.Marshal(result)
	if err != nil {
		return CreateRespPktErrExecFunc(pkt.UUID, err)
	}
	return CreateRespPkt(pkt.UUID, CodeOK, map[string][]byte{"result": resultBytes}, "ok")
}

func CreateRespPkt(reqUUID uuid.UUID, code int32, payload map[string][]byte, msg string) *Packet {
	return &Packet{
		UUID: reqUUID,
		Type: TypeResp,
		Code: code,
		Msg:  msg,
		Body: payload,
	}
}

func CreateRespPktErrUnmarshal(reqUUID uuid.UUID, err error) *Packet {
	return CreateRespPkt(reqUUID, CodeUnmarshal, nil, fmt.Sprintf("%s: %v", ErrBadBody, err))
}

func CreateRespPktErrExecFunc(reqUUID uuid.UUID, err error) *Packet {
	if errors.Is(err, pantry.ErrIncompatibleUnits) {
		return CreateRespPkt(reqUUID, CodeIncompatible, nil, err.Error())
	}
	return CreateRespPkt(reqUUID, CodeExec, nil, err.Error())
}
