package logo

import (
	"io"
	"io/ioutil"
	"workshop/authority"
	"workshop/bizerror"
	"workshop/client/s3"
	"workshop/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/fundwit/go-commons/types"
)

func DetailLogo(partnerID types.ID, s *session.Session) ([]byte, error) {
	r, err := s3.GetObjectFunc("partners/"+partnerID.String()+".png", s)
	if err != nil {
		if serErr, ok := err.(oss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return ioutil.ReadAll(r)
}

func CreateLogo(partnerID types.ID, r io.Reader, s *session.Session) error {
	if err := authority.Check(s.Role, authority.UploadLogo); err != nil {
		return err
	}
	return s3.PutObjectFunc("partners/"+partnerID.String()+".png", r, s)
}
