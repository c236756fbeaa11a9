package gscene

// followSession captures pointer moves and the final pointer up for one drag.
type followSession struct {
	handler FollowFunc
	target  *Layer
	start   Vec2 // global position of the initiating event
}

// Following reports whether a follow session is active.
func (s *Scene) Following() bool {
	return s.follow != nil
}

// startFollow moves the scene from idle to following. Move and up
// notifications are rebound to the session, replacing hit-test routing until
// the session ends.
func (s *Scene) startFollow(fn FollowFunc, e *Event) error {
	if s.follow != nil {
		return ErrFollowActive
	}
	s.follow = &followSession{
		handler: fn,
		target:  e.Target,
		start:   e.Global(),
	}
	s.host.Input.Bind(InputMove, s.followMove)
	s.host.Input.Bind(InputUp, s.followUp)
	s.log.debugf("follow started on %q at (%g, %g)", layerName(e.Target), e.GlobalX, e.GlobalY)
	return nil
}

func (s *Scene) followMove(x, y float64) {
	s.deliverFollow(x, y, false)
}

func (s *Scene) followUp(x, y float64) {
	s.deliverFollow(x, y, true)
	s.endFollow()
}

// deliverFollow builds the session event for the global point (gx, gy) and
// calls the handler. Local coordinates are relative to the session target's
// current position, which still resolves if the target was detached.
func (s *Scene) deliverFollow(gx, gy float64, last bool) {
	f := s.follow
	if f == nil {
		return
	}
	var x, y float64
	if f.target != nil {
		local := f.target.ToLocal(Vec2{gx, gy})
		x, y = local.X, local.Y
	}
	e := &Event{
		X: x, Y: y,
		GlobalX: gx, GlobalY: gy,
		Target:    f.target,
		Following: true,
		Delta:     Vec2{gx - f.start.X, gy - f.start.Y},
		Last:      last,
		scene:     s,
	}
	f.handler(e)
	s.emitInteractionEvent(EventFollow, e)
	s.Schedule()
}

// endFollow returns to idle and restores move/up routing to what it was
// before the session: hit testing for classes some layer listens to,
// unbound otherwise.
func (s *Scene) endFollow() {
	s.follow = nil
	for _, class := range [...]InputClass{InputMove, InputUp} {
		if s.bound.has(class) {
			s.host.Input.Bind(class, s.route(class))
		} else {
			s.host.Input.Bind(class, nil)
		}
	}
	s.log.debugf("follow ended")
}

func layerName(l *Layer) string {
	if l == nil {
		return ""
	}
	return l.Name
}
