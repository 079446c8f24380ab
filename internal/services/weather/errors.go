package weather

import "errors"

var (
	ErrInvalidInputCombination = errors.New("invalid input combination")
	ErrDecode                  = errors.New("failed to decode weather payload")
	ErrLocationUnavailable     = errors.New("location unavailable")
)

const (
	MessageInvalidCombination = "Please provide a valid combination of inputs!\n" +
		" It is either just city name OR city name, state code and country code together!"
	MessageNetworkIssue = "There seems to be some network issue. Please try after some time."
	MessageInvalidInput = "It seems you have entered a invalid inputs. Please check and retry again!"
)

// UserMessage maps an error returned by Service to the text shown to the user.
// A denied location has no message.
func UserMessage(err error) string {
	switch {
	case err == nil, errors.Is(err, ErrLocationUnavailable):
		return ""
	case errors.Is(err, ErrInvalidInputCombination):
		return MessageInvalidCombination
	case errors.Is(err, ErrDecode):
		return MessageInvalidInput
	default:
		// every fetch failure reads as a network issue
		return MessageNetworkIssue
	}
}
