package navigator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/randalmurphal/navigator/pkg/navigator/observability"
	"github.com/randalmurphal/navigator/pkg/navigator/snapshot"
)

// Codec converts destinations to and from snapshot entries. Only
// registered types can be persisted.
type Codec struct {
	mu       sync.RWMutex
	decoders map[string]func(json.RawMessage) (any, error)
}

// NewCodec creates an empty codec.
func NewCodec() *Codec {
	return &Codec{decoders: make(map[string]func(json.RawMessage) (any, error))}
}

// RegisterDestination makes T persistable. T must round-trip through
// encoding/json.
func RegisterDestination[T any](c *Codec) {
	name := typeNameOf[T]()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decoders[name] = func(raw json.RawMessage) (any, error) {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Registered reports whether a type name is known.
func (c *Codec) Registered(typeName string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.decoders[typeName]
	return ok
}

// Encode converts a destination to an entry.
func (c *Codec) Encode(d AnyDestination) (snapshot.Entry, error) {
	name := d.TypeName()
	if !c.Registered(name) {
		return snapshot.Entry{}, fmt.Errorf("%w: %s", ErrUnknownDestination, name)
	}
	data, err := json.Marshal(d.Value())
	if err != nil {
		return snapshot.Entry{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return snapshot.Entry{Type: name, Identity: d.ID(), Data: data}, nil
}

// Decode converts an entry back to a destination.
func (c *Codec) Decode(e snapshot.Entry) (AnyDestination, error) {
	c.mu.RLock()
	decode, ok := c.decoders[e.Type]
	c.mu.RUnlock()
	if !ok {
		return AnyDestination{}, fmt.Errorf("%w: %s", ErrUnknownDestination, e.Type)
	}
	v, err := decode(e.Data)
	if err != nil {
		return AnyDestination{}, fmt.Errorf("decode %s: %w", e.Type, err)
	}
	return Wrap(v), nil
}

// Snapshot encodes the stack.
func (n *Navigator) Snapshot(codec *Codec) (*snapshot.Snapshot, error) {
	path := make([]snapshot.Entry, 0, len(n.state.path))
	for _, d := range n.state.path {
		e, err := codec.Encode(d)
		if err != nil {
			return nil, err
		}
		path = append(path, e)
	}

	snap := snapshot.New(n.session.id, n.id, path).WithParent(n.parentID, n.placement.String())
	if d, ok := n.state.Sheet(); ok {
		e, err := codec.Encode(d)
		if err != nil {
			return nil, err
		}
		snap.WithSheet(e)
	}
	if d, ok := n.state.Cover(); ok {
		e, err := codec.Encode(d)
		if err != nil {
			return nil, err
		}
		snap.WithCover(e)
	}
	return snap, nil
}

// restoreSnapshot replaces the stack's path and modals. Nothing changes
// unless every entry decodes.
func (n *Navigator) restoreSnapshot(snap *snapshot.Snapshot, codec *Codec) error {
	path := make([]AnyDestination, 0, len(snap.Path))
	for _, e := range snap.Path {
		d, err := codec.Decode(e)
		if err != nil {
			return err
		}
		path = append(path, d)
	}
	var sheet, cover AnyDestination
	if snap.Sheet != nil {
		d, err := codec.Decode(*snap.Sheet)
		if err != nil {
			return err
		}
		sheet = d
	}
	if snap.Cover != nil {
		d, err := codec.Decode(*snap.Cover)
		if err != nil {
			return err
		}
		cover = d
	}

	n.state.replacePath(path)
	n.state.sheet = sheet
	n.state.cover = cover
	n.notify(ChangeRestore, AnyDestination{})
	return nil
}

// SaveSnapshots writes every mounted stack to store and deletes the
// session's stored snapshots for stacks that are no longer mounted. Stacks
// that fail to encode are skipped and reported in the joined error. Call it
// on the scheduler context.
func (s *Session) SaveSnapshots(ctx context.Context, store snapshot.Store) error {
	codec := s.cfg.codec
	if codec == nil {
		return ErrNoCodec
	}

	var errs []error
	for _, nav := range s.registry.Values() {
		snap, err := nav.Snapshot(codec)
		if err != nil {
			errs = append(errs, s.snapshotError(nav.id, "encode", err))
			continue
		}
		if err := store.Save(ctx, snap); err != nil {
			errs = append(errs, s.snapshotError(nav.id, "save", err))
		}
	}

	infos, err := store.List(ctx, s.id)
	if err != nil {
		errs = append(errs, s.snapshotError("", "list", err))
		return errors.Join(errs...)
	}
	for _, info := range infos {
		if s.registry.Mounted(info.StackID) {
			continue
		}
		if err := store.Delete(ctx, s.id, info.StackID); err != nil {
			errs = append(errs, s.snapshotError(info.StackID, "delete", err))
		}
	}
	return errors.Join(errs...)
}

// RestoreSnapshots rebuilds stacks saved under sessionID. Missing stacks
// are mounted under their saved parent; existing stacks have their path
// and modals replaced. Call it on the scheduler context.
func (s *Session) RestoreSnapshots(ctx context.Context, store snapshot.Store, sessionID string) error {
	codec := s.cfg.codec
	if codec == nil {
		return ErrNoCodec
	}

	infos, err := store.List(ctx, sessionID)
	if err != nil {
		return s.snapshotError("", "list", err)
	}

	var errs []error
	for _, info := range infos {
		snap, err := store.Load(ctx, sessionID, info.StackID)
		if err != nil {
			errs = append(errs, s.snapshotError(info.StackID, "load", err))
			continue
		}

		nav, ok := s.registry.Lookup(snap.StackID)
		if !ok {
			parent, ok := s.registry.Lookup(snap.ParentID)
			if !ok {
				errs = append(errs, s.snapshotError(snap.StackID, "mount", ErrParentNotMounted))
				continue
			}
			placement, ok := ParsePlacement(snap.Placement)
			if !ok {
				placement = PlacementNested
			}
			nav = parent.Mount(snap.StackID, placement)
		}

		if err := nav.restoreSnapshot(snap, codec); err != nil {
			errs = append(errs, s.snapshotError(snap.StackID, "decode", err))
		}
	}
	return errors.Join(errs...)
}

func (s *Session) snapshotError(stackID, op string, err error) error {
	observability.LogSnapshotError(s.logger, stackID, op, err)
	return &SnapshotError{StackID: stackID, Op: op, Err: err}
}
