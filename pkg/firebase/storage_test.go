package firebase

import "testing"

func TestPublicURL(t *testing.T) {
	got := PublicURL("demo.appspot.com", "avatars/7/photo.png")
	want := "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/avatars%2F7%2Fphoto.png?alt=media"
	if got != want {
		t.Fatalf("PublicURL() = %q, want %q", got, want)
	}
}

func TestNewBucketUploaderWithoutBucket(t *testing.T) {
	if NewBucketUploader(nil) != nil {
		t.Fatal("expected nil uploader without an app")
	}
	if NewBucketUploader(&App{}) != nil {
		t.Fatal("expected nil uploader without a bucket")
	}
}
