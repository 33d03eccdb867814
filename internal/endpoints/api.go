package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
)

type VerificationService interface {
	Verify(endpoint string) error
}

type HttpVerificationService struct {
	Client *http.Client
}

func NewDefaultVerificationService() VerificationService {
	return &HttpVerificationService{
		Client: &http.Client{},
	}
}

// Verify confirms that a subscription endpoint is well formed and answers
// an HTTP request before handing it to the notification service.
func (hv *HttpVerificationService) Verify(endpoint string) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("endpoint %s is not a valid URL: %v", endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("endpoint %s is not an http or https URL", endpoint)
	}
	req, err := http.NewRequest(http.MethodHead, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := hv.Client.Do(req)
	if err != nil {
		return fmt.Errorf("endpoint %s is unreachable: %v", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("endpoint %s answered with %d", endpoint, resp.StatusCode)
	}
	return nil
}
