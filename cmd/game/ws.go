package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pefman/broadside/internal/board"
	"github.com/pefman/broadside/internal/engine"
	"github.com/pefman/broadside/internal/game"
	"github.com/pefman/broadside/internal/models"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

var (
	errBadMessage = errors.New("bad message")
	errNoEditor   = fmt.Errorf("%w: no attack open, send \"open\" first", errBadMessage)
)

// session is one operator connection. Only its reader goroutine touches it.
type session struct {
	id     string
	conn   *websocket.Conn
	table  *Table
	editor *engine.Editor
}

func handleWS(w http.ResponseWriter, r *http.Request) {
	t, err := getTable(r.URL.Query().Get("table"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed table=%s: %v", t.ID, err)
		return
	}
	s := &session{id: uuid.NewString(), conn: conn, table: t}
	log.Printf("ws: connect id=%s table=%s from=%s", s.id, t.ID, r.RemoteAddr)
	s.send(models.MsgHello, map[string]string{"id": s.id, "table": t.ID})
	go s.reader()
}

func (s *session) send(typ string, data any) {
	if err := s.conn.WriteJSON(models.WsMsg{Type: typ, Data: data}); err != nil {
		log.Printf("ws: write error to %s: %v", s.id, err)
	}
}

func (s *session) sendErr(err error) {
	s.send(models.MsgError, map[string]any{"message": err.Error(), "status": statusFor(err)})
}

func (s *session) reader() {
	defer func() {
		_ = s.conn.Close()
		log.Printf("ws: closed id=%s", s.id)
	}()
	for {
		var in models.ClientIn
		if err := s.conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws: read error id=%s: %v", s.id, err)
			}
			return
		}
		log.Printf("ws: recv id=%s type=%s", s.id, in.Type)
		if err := s.handle(in); err != nil {
			s.sendErr(err)
		}
	}
}

func (s *session) handle(in models.ClientIn) error {
	if in.Type == models.MsgOpen {
		var req models.CellReq
		if err := decodeData(in.Data, &req); err != nil {
			return err
		}
		c, err := req.Resolve()
		if err != nil {
			return fmt.Errorf("%w: %v", errBadMessage, err)
		}
		s.editor = engine.NewEditor(s.table.Snapshot(), c)
		s.send(models.MsgState, s.editor.State())
		return nil
	}
	if in.Type == models.MsgClose {
		s.editor = nil
		s.send(models.MsgState, nil)
		return nil
	}
	if s.editor == nil {
		return errNoEditor
	}
	e := s.editor

	switch in.Type {
	case models.MsgAttacker:
		var req models.UserReq
		if err := decodeData(in.Data, &req); err != nil {
			return err
		}
		if err := e.SetAttacker(req.UserID); err != nil {
			return fmt.Errorf("%w: %v", errBadMessage, err)
		}
	case models.MsgClearAttacker:
		e.ClearAttacker()
	case models.MsgWeapons:
		var req models.WeaponsReq
		if err := decodeData(in.Data, &req); err != nil {
			return err
		}
		if err := e.SetWeapons(req.Primary, req.Secondary); err != nil {
			return err
		}
	case models.MsgRotate:
		e.Rotate()
	case models.MsgToggleHit, models.MsgToggleSunk, models.MsgSelectUser:
		var req models.UserReq
		if err := decodeData(in.Data, &req); err != nil {
			return err
		}
		switch in.Type {
		case models.MsgToggleHit:
			e.ToggleHit(req.UserID)
		case models.MsgToggleSunk:
			e.ToggleSunk(req.UserID)
		default:
			e.SelectUser(req.UserID)
		}
	case models.MsgSelectCell:
		var req models.CellReq
		if err := decodeData(in.Data, &req); err != nil {
			return err
		}
		c, err := req.Resolve()
		if err != nil {
			return fmt.Errorf("%w: %v", errBadMessage, err)
		}
		if err := e.SelectCell(c); err != nil {
			return err
		}
	case models.MsgToggleSunkAt:
		e.ToggleSunkAtSelected()
	case models.MsgOverride:
		e.Override()
	case models.MsgSave:
		a, err := e.Save()
		if err != nil {
			return err
		}
		p, err := s.table.Save(a)
		if err != nil {
			return err
		}
		s.editor = nil
		s.send(models.MsgSaved, savedMsg{Action: a, Pillage: p, Wallet: s.table.Summary().Wallet})
		return nil
	case models.MsgUndo:
		id, err := e.Undo()
		if err != nil {
			return err
		}
		if _, err := s.table.Remove(id); err != nil {
			return err
		}
		s.editor = nil
		s.send(models.MsgRemoved, map[string]int64{"id": id})
		return nil
	default:
		log.Printf("ws: unknown type id=%s type=%q", s.id, in.Type)
		return fmt.Errorf("%w: unknown type %q", errBadMessage, in.Type)
	}
	s.send(models.MsgState, e.State())
	return nil
}

type savedMsg struct {
	Action  board.BoardAction  `json:"action"`
	Pillage game.PillageResult `json:"pillage"`
	Wallet  game.Wallet        `json:"wallet"`
}

func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing data", errBadMessage)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}
	return nil
}
