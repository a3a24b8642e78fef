package api

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers follow auth.proto.

type SignUpRequest struct {
	DisplayName string
	Username    string
	Email       string
	Password    string
	BotToken    string
}

func (m *SignUpRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.DisplayName)
	b = appendString(b, 2, m.Username)
	b = appendString(b, 3, m.Email)
	b = appendString(b, 4, m.Password)
	return appendString(b, 5, m.BotToken)
}

func (m *SignUpRequest) unmarshalWire(b []byte) error {
	*m = SignUpRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.DisplayName)
		case 2:
			return consumeString(typ, b, &m.Username)
		case 3:
			return consumeString(typ, b, &m.Email)
		case 4:
			return consumeString(typ, b, &m.Password)
		case 5:
			return consumeString(typ, b, &m.BotToken)
		}
		return 0
	})
}

type LoginRequest struct {
	UsernameOrEmail string
	Password        string
	BotToken        string
}

func (m *LoginRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.UsernameOrEmail)
	b = appendString(b, 2, m.Password)
	return appendString(b, 3, m.BotToken)
}

func (m *LoginRequest) unmarshalWire(b []byte) error {
	*m = LoginRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.UsernameOrEmail)
		case 2:
			return consumeString(typ, b, &m.Password)
		case 3:
			return consumeString(typ, b, &m.BotToken)
		}
		return 0
	})
}

// TokenResponse carries the {id, role} session token.
type TokenResponse struct {
	Token string
}

func (m *TokenResponse) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Token)
}

func (m *TokenResponse) unmarshalWire(b []byte) error {
	*m = TokenResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeString(typ, b, &m.Token)
		}
		return 0
	})
}

type RefreshRequest struct {
	RefreshToken string
}

func (m *RefreshRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.RefreshToken)
}

func (m *RefreshRequest) unmarshalWire(b []byte) error {
	*m = RefreshRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeString(typ, b, &m.RefreshToken)
		}
		return 0
	})
}

type TokenPairResponse struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

func (m *TokenPairResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.AccessToken)
	b = appendTime(b, 2, m.AccessTokenExpiresAt)
	b = appendString(b, 3, m.RefreshToken)
	return appendTime(b, 4, m.RefreshTokenExpiresAt)
}

func (m *TokenPairResponse) unmarshalWire(b []byte) error {
	*m = TokenPairResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.AccessToken)
		case 2:
			return consumeTime(typ, b, &m.AccessTokenExpiresAt)
		case 3:
			return consumeString(typ, b, &m.RefreshToken)
		case 4:
			return consumeTime(typ, b, &m.RefreshTokenExpiresAt)
		}
		return 0
	})
}

type LogoutRequest struct {
	RefreshToken string
}

func (m *LogoutRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.RefreshToken)
}

func (m *LogoutRequest) unmarshalWire(b []byte) error {
	*m = LogoutRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeString(typ, b, &m.RefreshToken)
		}
		return 0
	})
}

type LogoutAllResponse struct {
	Revoked int64
}

func (m *LogoutAllResponse) appendWire(b []byte) []byte {
	return appendInt64(b, 1, m.Revoked)
}

func (m *LogoutAllResponse) unmarshalWire(b []byte) error {
	*m = LogoutAllResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeInt64(typ, b, &m.Revoked)
		}
		return 0
	})
}

type GetUserRequest struct {
	ID string
}

func (m *GetUserRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.ID)
}

func (m *GetUserRequest) unmarshalWire(b []byte) error {
	*m = GetUserRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeString(typ, b, &m.ID)
		}
		return 0
	})
}

type GrantPermissionRequest struct {
	UserID     string
	Permission string
}

func (m *GrantPermissionRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.UserID)
	return appendString(b, 2, m.Permission)
}

func (m *GrantPermissionRequest) unmarshalWire(b []byte) error {
	*m = GrantPermissionRequest{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.UserID)
		case 2:
			return consumeString(typ, b, &m.Permission)
		}
		return 0
	})
}

type UserResponse struct {
	ID          string
	DisplayName string
	Username    string
	Email       string
	Role        string
	IsActive    bool
	Permissions []string
}

func (m *UserResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.ID)
	b = appendString(b, 2, m.DisplayName)
	b = appendString(b, 3, m.Username)
	b = appendString(b, 4, m.Email)
	b = appendString(b, 5, m.Role)
	b = appendBool(b, 6, m.IsActive)
	return appendStrings(b, 7, m.Permissions)
}

func (m *UserResponse) unmarshalWire(b []byte) error {
	*m = UserResponse{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &m.ID)
		case 2:
			return consumeString(typ, b, &m.DisplayName)
		case 3:
			return consumeString(typ, b, &m.Username)
		case 4:
			return consumeString(typ, b, &m.Email)
		case 5:
			return consumeString(typ, b, &m.Role)
		case 6:
			return consumeBool(typ, b, &m.IsActive)
		case 7:
			return consumeStrings(typ, b, &m.Permissions)
		}
		return 0
	})
}

type Empty struct{}

func (*Empty) appendWire(b []byte) []byte { return b }

func (*Empty) unmarshalWire(b []byte) error {
	return decodeFields(b, func(protowire.Number, protowire.Type, []byte) int { return 0 })
}
