package provider

import (
	"seam/internal/jsontree"
)

// extractURLs flattens a stream descriptor into host+base_url+extra URLs,
// one per (format, codec, url_info) triple, in the order the platform sent them.
func extractURLs(streams jsontree.Value) ([]string, error) {
	urls := make([]string, 0)

	list, err := streams.Array()
	if err != nil {
		return nil, err
	}
	for _, stream := range list {
		formats, err := stream.Get("format").Array()
		if err != nil {
			return nil, err
		}
		for _, format := range formats {
			codecs, err := format.Get("codec").Array()
			if err != nil {
				return nil, err
			}
			for _, codec := range codecs {
				baseURL, err := codec.Get("base_url").Str()
				if err != nil {
					return nil, err
				}
				infos, err := codec.Get("url_info").Array()
				if err != nil {
					return nil, err
				}
				for _, info := range infos {
					host, err := info.Get("host").Str()
					if err != nil {
						return nil, err
					}
					extra, err := info.Get("extra").Str()
					if err != nil {
						return nil, err
					}
					urls = append(urls, host+baseURL+extra)
				}
			}
		}
	}

	return urls, nil
}
