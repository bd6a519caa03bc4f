package apiserver

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"

	"github.com/streamdao/streamcore/core/types"
)

// APIServer provides the json rpc surface and a websocket feed of the
// contract events raised by connected blocks
type APIServer struct {
	types.ServiceBase
	sync.Mutex
	e        *echo.Echo
	subMap   map[string]*JRPCSub
	connLock sync.Mutex
	conns    map[*websocket.Conn]bool
}

// NewAPIServer returns a APIServer
func NewAPIServer() *APIServer {
	s := &APIServer{
		e:      echo.New(),
		subMap: map[string]*JRPCSub{},
		conns:  map[*websocket.Conn]bool{},
	}
	s.e.HideBanner = true
	return s
}

// Name returns the name of the service
func (s *APIServer) Name() string {
	return "streamcore.apiserver"
}

// OnBlockConnected pushes the block's contract events to the feed subscribers
func (s *APIServer) OnBlockConnected(b *types.Block, events []*types.Event, loader types.Loader) {
	feed := []*EventNotify{}
	for _, en := range events {
		if en.Type != types.EventTagContract {
			continue
		}
		ev := &types.ContractEvent{}
		if _, err := ev.ReadFrom(bytes.NewReader(en.Result)); err != nil {
			continue
		}
		args := make([]string, 0, len(ev.Args))
		for _, v := range ev.Args {
			args = append(args, fmt.Sprintf("%v", v))
		}
		feed = append(feed, &EventNotify{
			Height:   b.Header.Height,
			Index:    en.Index,
			Contract: ev.To.String(),
			From:     ev.From.String(),
			Name:     ev.Name,
			Args:     args,
		})
	}
	if len(feed) == 0 {
		return
	}

	s.connLock.Lock()
	defer s.connLock.Unlock()
	for conn := range s.conns {
		if err := conn.WriteJSON(feed); err != nil {
			conn.Close()
			delete(s.conns, conn)
		}
	}
}

// EventNotify is a contract event pushed over the websocket feed
type EventNotify struct {
	Height   uint32   `json:"height"`
	Index    uint16   `json:"index"`
	Contract string   `json:"contract"`
	From     string   `json:"from"`
	Name     string   `json:"name"`
	Args     []string `json:"args"`
}

// JRPC provides the json rpc feature as a SubName.FunctionName methods
func (s *APIServer) JRPC(SubName string) (*JRPCSub, error) {
	s.Lock()
	defer s.Unlock()

	if _, has := s.subMap[SubName]; has {
		return nil, ErrExistSubName
	}
	js := NewJRPCSub()
	s.subMap[SubName] = js
	return js, nil
}
