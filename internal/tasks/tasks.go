package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // registered for image.Decode
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/amirsaid123/UY-Bor/internal/config"
	"github.com/amirsaid123/UY-Bor/internal/models"
	"github.com/amirsaid123/UY-Bor/internal/sms"
	"github.com/amirsaid123/UY-Bor/internal/storage"
)

// TaskType defines the type of a background task.
const (
	TypeSmsDelivery         = "sms:deliver"
	TypeVerificationCleanup = "verification:cleanup"
	TypeImageProcess        = "image:process"
)

// Enqueuer is the slice of asynq.Client the services need. Tests substitute a
// mock; production passes the real client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// --- Task payloads ---

// SmsTaskPayload carries one verification SMS.
type SmsTaskPayload struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

// VerificationCleanupPayload names the exact row to expire. The delete is
// conditional on both fields, so a consumed or re-issued code is a no-op.
type VerificationCleanupPayload struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

// ImageTaskPayload points the worker at an uploaded S3 object.
type ImageTaskPayload struct {
	PropertyID uint   `json:"property_id"`
	S3Key      string `json:"s3_key"`
}

func NewSmsDeliveryTask(phoneNumber, code string) (*asynq.Task, error) {
	payload, err := json.Marshal(SmsTaskPayload{PhoneNumber: phoneNumber, Code: code})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sms task payload: %w", err)
	}
	return asynq.NewTask(TypeSmsDelivery, payload, asynq.Queue("critical")), nil
}

func NewVerificationCleanupTask(phoneNumber, code string) (*asynq.Task, error) {
	payload, err := json.Marshal(VerificationCleanupPayload{PhoneNumber: phoneNumber, Code: code})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cleanup task payload: %w", err)
	}
	return asynq.NewTask(TypeVerificationCleanup, payload, asynq.Queue("low")), nil
}

func NewImageProcessTask(propertyID uint, s3Key string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImageTaskPayload{PropertyID: propertyID, S3Key: s3Key})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image task payload: %w", err)
	}
	return asynq.NewTask(TypeImageProcess, payload, asynq.Queue("images")), nil
}

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg       *config.Config
	db        *gorm.DB
	smsSender sms.Sender
	storage   storage.IS3Storage
	s3Client  *s3.Client
}

func NewTaskProcessor(
	cfg *config.Config,
	gdb *gorm.DB,
	smsSender sms.Sender,
	stor storage.IS3Storage,
	s3Client *s3.Client,
) *TaskProcessor {
	return &TaskProcessor{
		cfg:       cfg,
		db:        gdb,
		smsSender: smsSender,
		storage:   stor,
		s3Client:  s3Client,
	}
}

// SetupServer configures and starts an Asynq server instance. The caller owns
// shutdown.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, isImageWorker bool, isBgWorker bool) *asynq.Server {
	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			// Separate queues so SMS delivery is never starved by image jobs
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
				"images":   5,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				fmt.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v\n", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()

	if isBgWorker {
		mux.HandleFunc(TypeSmsDelivery, processor.HandleSmsDeliveryTask)
		mux.HandleFunc(TypeVerificationCleanup, processor.HandleVerificationCleanupTask)
		fmt.Println("Registered background task handlers (sms & verification cleanup).")
	}

	if isImageWorker {
		mux.HandleFunc(TypeImageProcess, processor.HandleImageProcessTask)
		fmt.Println("Registered image processing task handlers.")
	}

	if !isBgWorker && !isImageWorker {
		fmt.Println("Running in API mode, no task server started.")
		return nil
	}

	if err := srv.Start(mux); err != nil {
		log.Fatalf("Could not start Asynq server: %v", err)
	}

	return srv
}

// --- Task Handlers ---

// HandleSmsDeliveryTask delivers a verification code through the SMS sender.
func (p *TaskProcessor) HandleSmsDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload SmsTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal sms task payload: %v: %w", err, asynq.SkipRetry)
	}

	message := fmt.Sprintf("%s verification code: %s", p.cfg.AppName, payload.Code)
	if err := p.smsSender.Send(ctx, payload.PhoneNumber, message); err != nil {
		log.Printf("SMS delivery to %s failed (will retry): %v", payload.PhoneNumber, err)
		return err
	}

	log.Printf("SMS task processed: To=%s", payload.PhoneNumber)
	return nil
}

// HandleVerificationCleanupTask expires one verification code. The task is
// scheduled at enqueue time with ProcessIn(code TTL); by the time it runs the
// row is gone if the code was consumed or replaced.
func (p *TaskProcessor) HandleVerificationCleanupTask(ctx context.Context, t *asynq.Task) error {
	var payload VerificationCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal cleanup task payload: %v: %w", err, asynq.SkipRetry)
	}

	res := p.db.WithContext(ctx).
		Where("phone_number = ? AND code = ?", payload.PhoneNumber, payload.Code).
		Delete(&models.PhoneVerification{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete stale verification: %w", res.Error)
	}

	if res.RowsAffected > 0 {
		log.Printf("Expired unconsumed verification code for %s", payload.PhoneNumber)
	}
	return nil
}

// HandleImageProcessTask normalizes an uploaded property image: bounds check,
// resize when oversized, thumbnail generation, then the Image row insert.
func (p *TaskProcessor) HandleImageProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImageTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal image task payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Printf("Processing image task: S3Key=%s, PropertyID=%d", payload.S3Key, payload.PropertyID)

	// The property must still exist; uploads for deleted listings are dropped.
	var property models.Property
	if err := p.db.WithContext(ctx).First(&property, payload.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Property %d gone, dropping image %s", payload.PropertyID, payload.S3Key)
			return fmt.Errorf("property not found: %w", asynq.SkipRetry)
		}
		return fmt.Errorf("failed to load property %d: %w", payload.PropertyID, err)
	}

	// 1. Download image from S3
	getObjectOutput, err := p.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.cfg.AwsS3Bucket),
		Key:    aws.String(payload.S3Key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			log.Printf("S3 object %s not found, likely upload failed or key incorrect.", payload.S3Key)
			return fmt.Errorf("s3 object not found: %w", asynq.SkipRetry)
		}
		return fmt.Errorf("failed to download image from S3: %w", err)
	}
	defer getObjectOutput.Body.Close()

	imgData, err := io.ReadAll(getObjectOutput.Body)
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}

	// Check size before decoding
	maxSizeBytes := int64(p.cfg.ImageMaxSizeMB) * 1024 * 1024
	if int64(len(imgData)) > maxSizeBytes {
		log.Printf("Image %s exceeds max size (%d > %d bytes). Skipping.", payload.S3Key, len(imgData), maxSizeBytes)
		return fmt.Errorf("image exceeds max size: %w", asynq.SkipRetry)
	}

	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}
	log.Printf("Decoded image %s, format: %s, size: %dx%d", payload.S3Key, format, img.Bounds().Dx(), img.Bounds().Dy())

	// 2. Resize down to the configured bound if needed, overwriting the upload
	maxDim := uint(p.cfg.ImageMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		resized := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
			return fmt.Errorf("failed to re-encode resized image: %w", err)
		}
		_, err = p.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.cfg.AwsS3Bucket),
			Key:         aws.String(payload.S3Key),
			Body:        bytes.NewReader(buf.Bytes()),
			ContentType: aws.String("image/jpeg"),
		})
		if err != nil {
			return fmt.Errorf("failed to upload resized image: %w", err)
		}
		img = resized
		log.Printf("Resized image %s to %dx%d", payload.S3Key, img.Bounds().Dx(), img.Bounds().Dy())
	}

	// 3. Thumbnail for list views
	thumbKey := payload.S3Key + "_thumb.jpg"
	thumb := resize.Thumbnail(400, 300, img, resize.Lanczos3)
	var thumbBuf bytes.Buffer
	if err := jpeg.Encode(&thumbBuf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	_, err = p.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.AwsS3Bucket),
		Key:         aws.String(thumbKey),
		Body:        bytes.NewReader(thumbBuf.Bytes()),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	// 4. Record the processed image
	imageRow := models.Image{
		PropertyID:   property.ID,
		URL:          p.storage.ObjectURL(payload.S3Key),
		ThumbnailURL: p.storage.ObjectURL(thumbKey),
	}
	if err := p.db.WithContext(ctx).Create(&imageRow).Error; err != nil {
		return fmt.Errorf("failed to insert image row: %w", err)
	}

	log.Printf("Image task processed: Key=%s, PropertyID=%d", payload.S3Key, payload.PropertyID)
	return nil
}
