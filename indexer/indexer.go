// Package indexer maintains secondary indexes over engine events so clients
// can query a player's match history without scanning full state.
package indexer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jayden-sudo/ZK-Battleship/core"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/storage"
)

const prefixPlayerGames = "idx:player:games:"

// Indexer subscribes to engine events and updates secondary lookup tables.
type Indexer struct {
	db      storage.DB
	emitter *events.Emitter
}

// New creates an Indexer backed by db and subscribes to relevant events.
func New(db storage.DB, emitter *events.Emitter) *Indexer {
	idx := &Indexer{db: db, emitter: emitter}
	emitter.Subscribe(events.EventGameCreated, idx.onGameCreated)
	emitter.Subscribe(events.EventGameJoined, idx.onGameJoined)
	return idx
}

// GetGamesByPlayer returns every game id the player has created or joined,
// oldest first.
func (idx *Indexer) GetGamesByPlayer(player string) ([]string, error) {
	return idx.getList(prefixPlayerGames + player)
}

// ---- event handlers ----

func (idx *Indexer) onGameCreated(ev events.Event) {
	creator, _ := ev.Data["creator"].(string)
	gameID, _ := ev.Data["game_id"].(string)
	if creator == "" || gameID == "" {
		return
	}
	_ = idx.addToList(prefixPlayerGames+creator, gameID)
}

func (idx *Indexer) onGameJoined(ev events.Event) {
	joiner, _ := ev.Data["joiner"].(string)
	gameID, _ := ev.Data["game_id"].(string)
	if joiner == "" || gameID == "" {
		return
	}
	_ = idx.addToList(prefixPlayerGames+joiner, gameID)
}

// ---- list helpers ----

func (idx *Indexer) getList(key string) ([]string, error) {
	data, err := idx.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil // empty list
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("indexer unmarshal: %w", err)
	}
	return ids, nil
}

func (idx *Indexer) addToList(key, value string) error {
	ids, _ := idx.getList(key)
	for _, id := range ids {
		if id == value {
			return nil
		}
	}
	ids = append(ids, value)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return idx.db.Set([]byte(key), data)
}
