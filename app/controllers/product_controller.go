package controllers

import (
	"net/http"
	"strconv"

	"github.com/hostelease/hostelease/app/services"
	"github.com/hostelease/hostelease/pkg/ctx"
)

// ProductController exposes the catalog. Listing is open to any
// authenticated user; the mutations sit behind the Admin role gate.
type ProductController struct {
	products *services.ProductService
}

func NewProductController(svc *services.ProductService) *ProductController {
	return &ProductController{products: svc}
}

// List handles GET /api/products/get.
func (pc *ProductController) List(c *ctx.Context) {
	products, err := pc.products.List()
	if err != nil {
		handleError(c, err)
		return
	}
	c.Success(products)
}

// Create handles POST /api/products/create (multipart/form-data with
// fields product, price and the image file).
func (pc *ProductController) Create(c *ctx.Context) {
	name := c.PostForm("product")
	if name == "" {
		name = c.PostForm("name")
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		c.Error(http.StatusBadRequest, "price must be a number")
		return
	}

	file, header, err := c.FormFile("image")
	if err != nil {
		c.Error(http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	product, err := pc.products.Create(services.CreateProductInput{
		Name:     name,
		Price:    price,
		Image:    file,
		Filename: header.Filename,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.Created(product)
}

// Update handles PUT /api/products/update/{id}. All fields are optional;
// only the provided ones change.
func (pc *ProductController) Update(c *ctx.Context) {
	id := c.ParamUint("id")
	if id == 0 {
		c.Error(http.StatusBadRequest, "invalid product id")
		return
	}

	var input services.UpdateProductInput

	if name := c.PostForm("product"); name != "" {
		input.Name = &name
	} else if name := c.PostForm("name"); name != "" {
		input.Name = &name
	}
	if raw := c.PostForm("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.Error(http.StatusBadRequest, "price must be a number")
			return
		}
		input.Price = &price
	}
	if file, header, err := c.FormFile("image"); err == nil {
		defer file.Close()
		input.Image = file
		input.Filename = header.Filename
	}

	product, err := pc.products.Update(id, input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Success(product)
}

// Delete handles DELETE /api/products/delete/{id}.
func (pc *ProductController) Delete(c *ctx.Context) {
	id := c.ParamUint("id")
	if id == 0 {
		c.Error(http.StatusBadRequest, "invalid product id")
		return
	}

	if err := pc.products.Delete(id); err != nil {
		handleError(c, err)
		return
	}
	c.Message("Product deleted", nil)
}
