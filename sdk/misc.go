package sdk

import "context"

// MiscService groups server level operations.
type MiscService struct {
	service
}

// SystemInfo returns information about the Confluence installation.
func (s *MiscService) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	var info SystemInfo
	if err := s.get(ctx, "settings/systemInfo", "settings/systemInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
