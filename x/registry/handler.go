package registry

import (
	"github.com/iov-one/bridge"
	"github.com/iov-one/bridge/errors"
	"github.com/iov-one/bridge/x"
)

// RegisterRoutes registers the handlers of this package.
func RegisterRoutes(r bridge.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(RotateSignersMsg{}.Path(), NewRotateHandler(auth, ctrl))
}

// RotateHandler rotates the signer set. Only the configured rotation
// authority can do this. When the authority is proof.CurrentSignersCondition
// the current signer set rotates itself.
type RotateHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ bridge.Handler = (*RotateHandler)(nil)

// NewRotateHandler returns a handler for RotateSignersMsg.
func NewRotateHandler(auth x.Authenticator, ctrl *Controller) *RotateHandler {
	return &RotateHandler{auth: auth, ctrl: ctrl}
}

func (h *RotateHandler) Check(ctx bridge.Context, db bridge.KVStore, msg bridge.Msg) (*bridge.CheckResult, error) {
	if _, err := h.validate(ctx, db, msg); err != nil {
		return nil, err
	}
	return &bridge.CheckResult{}, nil
}

func (h *RotateHandler) Deliver(ctx bridge.Context, db bridge.KVStore, msg bridge.Msg) (*bridge.DeliverResult, error) {
	m, err := h.validate(ctx, db, msg)
	if err != nil {
		return nil, err
	}
	ctx = bridge.WithLogInfo(ctx, "authorized_by", x.GetAddresses(ctx, h.auth))
	epoch, digest, err := h.ctrl.Rotate(ctx, db, m.SignerSet)
	if err != nil {
		return nil, err
	}
	return &bridge.DeliverResult{
		Data:   digest,
		Events: []bridge.Event{RotationEvent(epoch, digest)},
	}, nil
}

func (h *RotateHandler) validate(ctx bridge.Context, db bridge.KVStore, msg bridge.Msg) (*RotateSignersMsg, error) {
	m, ok := msg.(*RotateSignersMsg)
	if !ok {
		return nil, errors.WithType(errors.ErrType, msg)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if len(conf.RotationAuthority) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "rotation authority not configured")
	}
	if !h.auth.HasAddress(ctx, conf.RotationAuthority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "rotation authority signature required")
	}
	return m, nil
}
