package pantryrpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"pantry"
)

// Client calls a Server over one connection. Calls are serialized.
type Client struct {
	conn net.Conn

	mu sync.Mutex
	pb PacketBuffer
}

func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return NewClient(conn), nil
}

func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Convert(ctx context.Context, quantity float64, from, to pantry.Unit) (float64, error) {
	var resp ConvertResponse
	req := ConvertRequest{Quantity: quantity, From: string(from), To: string(to)}
	if err := c.call(ctx, FuncConvert, req, &resp); err != nil {
		return 0, err
	}
	return resp.Quantity, nil
}

func (c *Client) Match(ctx context.Context, entries []pantry.Quantity, ing pantry.Ingredient) (pantry.MatchResult, error) {
	req := MatchRequest{Ingredient: NewIngredient(ing)}
	for _, e := range entries {
		req.Pantry = append(req.Pantry, NewQuantity(e))
	}
	var resp MatchResult
	if err := c.call(ctx, FuncMatch, req, &resp); err != nil {
		return pantry.MatchResult{}, err
	}
	return ToMatchResult(resp), nil
}

// MatchRecipe returns the per-ingredient results and the shopping labels of
// the missing ingredients.
func (c *Client) MatchRecipe(ctx context.Context, items []pantry.Item, ings []pantry.Ingredient) (pantry.RecipeMatch, []string, error) {
	var req RecipeRequest
	for _, it := range items {
		req.Pantry = append(req.Pantry, NewItem(it))
	}
	for _, ing := range ings {
		req.Ingredients = append(req.Ingredients, NewIngredient(ing))
	}
	var resp RecipeResponse
	if err := c.call(ctx, FuncRecipe, req, &resp); err != nil {
		return pantry.RecipeMatch{}, nil, err
	}
	rm := pantry.RecipeMatch{Results: make([]pantry.MatchResult, 0, len(resp.Results))}
	for _, r := range resp.Results {
		rm.Results = append(rm.Results, ToMatchResult(r))
	}
	return rm, resp.Missing, nil
}

func (c *Client) call(ctx context.Context, function string, arg, result any) error {
	argBytes, err := msgpack.Marshal(arg)
	if err != nil {
		return fmt.Errorf("marshal %s arg: %w", function, err)
	}
	req := &Packet{
		UUID: uuid.New(),
		Type: TypeReq,
		Body: map[string][]byte{
			"function": []byte(function),
			"arg":      argBytes,
		},
	}
	out, err := Encode(req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", function, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(interrupted)
		c.conn.SetDeadline(time.Now())
	})
	defer func() {
		if !stop() {
			// the callback already started; let it finish before clearing
			<-interrupted
		}
		c.conn.SetDeadline(time.Time{})
	}()

	if _, err := c.conn.Write(out); err != nil {
		return c.ctxErr(ctx, fmt.Errorf("write %s request: %w", function, err))
	}
	resp, err := c.readResponse(req.UUID)
	if err != nil {
		return c.ctxErr(ctx, fmt.Errorf("read %s response: %w", function, err))
	}
	if resp.Code != CodeOK {
		return &RemoteError{Code: resp.Code, Msg: resp.Msg}
	}
	if err := msgpack.Unmarshal(resp.Body["result"], result); err != nil {
		return fmt.Errorf("unmarshal %s result: %w", function, err)
	}
	return nil
}

// readResponse reads until the response to id arrives. Responses to earlier,
// abandoned calls are dropped.
func (c *Client) readResponse(id uuid.UUID) (*Packet, error) {
	buf := make([]byte, readBufSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			pkts, ferr := c.pb.Feed(buf[:n])
			for _, pkt := range pkts {
				if pkt.Type == TypeResp && pkt.UUID == id {
					return pkt, nil
				}
			}
			if ferr != nil {
				return nil, ferr
			}
		}
		if err != nil {
			return nil, err
		}
	}
}

func (c *Client) ctxErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}
