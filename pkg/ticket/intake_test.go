package ticket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateIntake(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(raw map[FieldID]string)
		wantField FieldID
	}{
		{
			name:   "valid",
			mutate: func(map[FieldID]string) {},
		},
		{
			name:      "purpose one short",
			mutate:    func(raw map[FieldID]string) { raw[FieldPurpose] = strings.Repeat("a", 49) },
			wantField: FieldPurpose,
		},
		{
			name:   "purpose at maximum",
			mutate: func(raw map[FieldID]string) { raw[FieldPurpose] = strings.Repeat("a", 500) },
		},
		{
			name:      "purpose over maximum",
			mutate:    func(raw map[FieldID]string) { raw[FieldPurpose] = strings.Repeat("a", 501) },
			wantField: FieldPurpose,
		},
		{
			name:      "purpose padded with whitespace",
			mutate:    func(raw map[FieldID]string) { raw[FieldPurpose] = "   " + strings.Repeat("a", 49) + "   " },
			wantField: FieldPurpose,
		},
		{
			name:      "age with letter",
			mutate:    func(raw map[FieldID]string) { raw[FieldAge] = "1a" },
			wantField: FieldAge,
		},
		{
			name:      "age too long",
			mutate:    func(raw map[FieldID]string) { raw[FieldAge] = "123" },
			wantField: FieldAge,
		},
		{
			name:      "age empty",
			mutate:    func(raw map[FieldID]string) { raw[FieldAge] = " " },
			wantField: FieldAge,
		},
		{
			name:      "nickname too short",
			mutate:    func(raw map[FieldID]string) { raw[FieldNickname] = "ab" },
			wantField: FieldNickname,
		},
		{
			name:      "rules missing",
			mutate:    func(raw map[FieldID]string) { delete(raw, FieldRules) },
			wantField: FieldRules,
		},
		{
			name: "first failure wins",
			mutate: func(raw map[FieldID]string) {
				raw[FieldAge] = "x"
				raw[FieldReferral] = ""
			},
			wantField: FieldAge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validIntake()
			tt.mutate(raw)

			fields, err := ValidateIntake(raw)
			if tt.wantField == "" {
				require.NoError(t, err)
				require.Len(t, fields, len(IntakeFields))
				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			require.Equal(t, tt.wantField, vErr.Field)
			require.NotEmpty(t, vErr.Message)
		})
	}
}

func TestValidateIntake_TrimsValues(t *testing.T) {
	fields, err := ValidateIntake(validIntake())
	require.NoError(t, err)
	require.Equal(t, Field{ID: FieldNickname, Summary: "Nickname", Value: "Steve"}, fields[0])
}

func TestValidateIntake_MultibyteLength(t *testing.T) {
	raw := validIntake()
	raw[FieldPurpose] = strings.Repeat("я", 50)

	_, err := ValidateIntake(raw)
	require.NoError(t, err)
}

func TestCollaboratorIdentity(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "please add <@123456789012345678> thanks", want: "123456789012345678"},
		{input: "123456789012345678", want: "123456789012345678"},
		{input: "<@!12345678901234567890>", want: "12345678901234567890"},
		{input: "1234567890123456", wantErr: ErrMalformedIdentity},
		{input: "nobody", wantErr: ErrMalformedIdentity},
		{input: "", wantErr: ErrMalformedIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := CollaboratorRequest{Input: tt.input}.Identity()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCollaboratorIdentity_TooLong(t *testing.T) {
	_, err := CollaboratorRequest{Input: strings.Repeat("1", MaxCollaboratorInputLength+1)}.Identity()

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestRejectReason(t *testing.T) {
	r, err := RejectReason{Text: "  spam  "}.Validate()
	require.NoError(t, err)
	require.Equal(t, "spam", r.Text)

	r, err = RejectReason{}.Validate()
	require.NoError(t, err)
	require.Empty(t, r.Text)

	_, err = RejectReason{Text: strings.Repeat("a", MaxReasonLength+1)}.Validate()
	require.Error(t, err)
}

func TestNotices(t *testing.T) {
	n := rejectNotice("", "")
	require.Equal(t, RejectedTitle, n.Title)
	require.True(t, strings.HasPrefix(n.Body, DefaultRejectMessage))
	require.True(t, strings.HasSuffix(n.Body, Signature))

	n = rejectNotice("No.", "spam")
	require.Equal(t, "No.\n\n**Reason:** spam\n\n"+Signature, n.Body)

	n = acceptNotice("Welcome!")
	require.Equal(t, AcceptedTitle, n.Title)
	require.Equal(t, "Welcome!\n\n"+Signature, n.Body)
}

func TestChannelName(t *testing.T) {
	require.Equal(t, "ticket-steve", channelName("steve"))

	long := channelName(strings.Repeat("ж", 200))
	require.Equal(t, maxChannelName, len([]rune(long)))
}
