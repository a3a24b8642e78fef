package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestCodecReplacesDefaultProtoCodec(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, "proto", c.Name())
	assert.IsType(t, codec{}, c)
}

func TestLoginRequestWireFormat(t *testing.T) {
	b, err := codec{}.Marshal(&LoginRequest{UsernameOrEmail: "alice", Password: "pw"})
	require.NoError(t, err)

	var want []byte
	want = protowire.AppendTag(want, 1, protowire.BytesType)
	want = protowire.AppendString(want, "alice")
	want = protowire.AppendTag(want, 2, protowire.BytesType)
	want = protowire.AppendString(want, "pw")
	assert.Equal(t, want, b, "empty bot token is omitted")

	var got LoginRequest
	require.NoError(t, codec{}.Unmarshal(b, &got))
	assert.Equal(t, LoginRequest{UsernameOrEmail: "alice", Password: "pw"}, got)
}

func TestTokenPairTimestamps(t *testing.T) {
	exp := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	in := &TokenPairResponse{AccessToken: "a", AccessTokenExpiresAt: exp, RefreshToken: "r"}

	b, err := codec{}.Marshal(in)
	require.NoError(t, err)

	var got TokenPairResponse
	require.NoError(t, codec{}.Unmarshal(b, &got))
	assert.True(t, got.AccessTokenExpiresAt.Equal(exp))
	assert.True(t, got.RefreshTokenExpiresAt.IsZero(), "unset timestamp stays zero")

	// Field 2 is a regular google.protobuf.Timestamp.
	_, _, n := protowire.ConsumeTag(b)
	_, m := protowire.ConsumeString(b[n:])
	b = b[n+m:]
	_, _, n = protowire.ConsumeTag(b)
	raw, _ := protowire.ConsumeBytes(b[n:])
	ts := &timestamppb.Timestamp{}
	require.NoError(t, proto.Unmarshal(raw, ts))
	assert.Equal(t, exp.Unix(), ts.GetSeconds())
	assert.Equal(t, int32(123456789), ts.GetNanos())
}

func TestUserResponseSkipsUnknownFields(t *testing.T) {
	in := &UserResponse{ID: "u1", Role: "admin", IsActive: true, Permissions: []string{"read_users", "write_users"}}
	b, err := codec{}.Marshal(in)
	require.NoError(t, err)

	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)
	b = protowire.AppendTag(b, 98, protowire.BytesType)
	b = protowire.AppendString(b, "future")

	var got UserResponse
	require.NoError(t, codec{}.Unmarshal(b, &got))
	assert.Equal(t, *in, got)
}

func TestLogoutAllRevokedCount(t *testing.T) {
	b, err := codec{}.Marshal(&LogoutAllResponse{Revoked: 3})
	require.NoError(t, err)

	var got LogoutAllResponse
	require.NoError(t, codec{}.Unmarshal(b, &got))
	assert.Equal(t, int64(3), got.Revoked)
}

func TestEmptyEncodesToNothing(t *testing.T) {
	b, err := codec{}.Marshal(&Empty{})
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.NoError(t, codec{}.Unmarshal(nil, &Empty{}))
}

func TestCodecDelegatesGeneratedMessages(t *testing.T) {
	in := &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}
	b, err := codec{}.Marshal(in)
	require.NoError(t, err)

	got := &grpc_health_v1.HealthCheckResponse{}
	require.NoError(t, codec{}.Unmarshal(b, got))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, got.GetStatus())
}

func TestCodecErrors(t *testing.T) {
	_, err := codec{}.Marshal(struct{}{})
	assert.Error(t, err)
	assert.Error(t, codec{}.Unmarshal(nil, &struct{}{}))

	// Length prefix promises more bytes than present.
	truncated := protowire.AppendTag(nil, 1, protowire.BytesType)
	truncated = protowire.AppendVarint(truncated, 10)
	assert.Error(t, codec{}.Unmarshal(truncated, &GetUserRequest{}))
}
